// Package outlier locates outlier rows in tabular numeric data using a
// combination of univariate and multivariate detectors.
//
// Both detectors are distribution-free and robust: the univariate detector
// is the adjusted boxplot (Hubert & Vandervieren), which skews Tukey's
// fences by the medcouple so that heavy one-sided tails are not
// over-flagged, and the multivariate detector is a robust random cut
// forest (Guha et al.), which scores whole rows by the structural
// displacement they cause in an ensemble of random space-partitioning
// trees.
//
// Basic usage:
//
//	// x1 defines "normal" behavior, x2 holds the rows under test.
//	mask, err := outlier.Locate(x1, x2, seed)
//	// mask[i] is true when row i of x2 is an outlier with respect to x1
//
// The individual detectors are also exported:
//
//	cells, err := outlier.AdjustedBoxplot(x1, x2)          // per-cell flags
//	rows, err := outlier.RandomCut(x1, x2, outlier.DefaultForestConfig())
//
// Locate restricts univariate flags to columns that look continuous (see
// IsNumeric), reduces them to one flag per row, and unions the result with
// the forest's row verdicts.
//
// Score runs Locate over a training/validation split and reports model
// quality metrics restricted to the flagged validation rows, which is
// useful for reporting classifier performance on "hard" cases separately
// from the general population.
//
// RandomCut inserts every query row into every tree, reads its score, and
// removes it again; its cost is O(rows(x2) × trees × tree-op). It is not
// intended for large query sets or large ensembles.
package outlier
