package outlier

// Locate flags outlier rows in x2 with respect to x1 by combining the
// univariate and multivariate detectors. Cell-level AdjustedBoxplot flags
// are restricted to columns that look continuous (IsNumeric over the
// combined rows of x1 and x2), reduced to one flag per row, and unioned
// with RandomCut's row verdicts. The union is a logical OR: a row flagged
// by both detectors is simply an outlier once.
//
// The forest runs with default parameters and a tree size of
// min(DefaultTreeSize, rows(x1)/2). A reference set of fewer than two rows
// leaves no valid tree size and is an invalid argument.
//
// The returned mask has one entry per row of x2.
func Locate(x1, x2 [][]float64, seed int64) ([]bool, error) {
	if _, err := matchDims(x1, x2); err != nil {
		return nil, err
	}

	combined := make([][]float64, 0, len(x1)+len(x2))
	combined = append(append(combined, x1...), x2...)
	numeric, err := IsNumeric(combined, DefaultFrac)
	if err != nil {
		return nil, err
	}

	cells, err := AdjustedBoxplot(x1, x2)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, len(x2))
	for i, row := range cells {
		for j, flagged := range row {
			if flagged && numeric[j] {
				mask[i] = true
				break
			}
		}
	}

	cfg := DefaultForestConfig()
	cfg.Seed = seed
	if half := len(x1) / 2; half < cfg.TreeSize {
		cfg.TreeSize = half
	}
	multivariate, err := RandomCut(x1, x2, cfg)
	if err != nil {
		return nil, err
	}
	for i, flagged := range multivariate {
		if flagged {
			mask[i] = true
		}
	}
	return mask, nil
}
