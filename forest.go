package outlier

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// DefaultTreeSize is the number of reference rows sampled into each tree.
const DefaultTreeSize = 256

// transientLabel tags a query row while it is temporarily inserted into a
// tree. Reference labels are row indices, so -1 never collides.
const transientLabel = -1

// ForestConfig controls the random cut forest detector. Start with
// DefaultForestConfig and override the fields you need; zero values are
// rejected rather than defaulted, so an explicit TreeSize of 0 is an
// invalid argument.
type ForestConfig struct {
	// NumTrees is the minimum number of trees in the forest. Trees are
	// built in whole batches, so the final count may exceed it. Default: 100.
	NumTrees int

	// TreeSize is the number of reference rows sampled (without
	// replacement) into each tree. Must not exceed the reference row
	// count. Default: 256.
	TreeSize int

	// K is the Tukey fence multiplier applied to the IQR of the baseline
	// scores when thresholding. Must be > 0. Default: 1.5.
	K float64

	// Seed initializes the random number generator. Two calls with
	// identical inputs and the same seed produce identical masks.
	Seed int64
}

// DefaultForestConfig returns a ForestConfig with reasonable defaults.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{NumTrees: 100, TreeSize: DefaultTreeSize, K: 1.5}
}

func validateForestConfig(cfg ForestConfig) error {
	if cfg.NumTrees < 1 {
		return fmt.Errorf("outlier: NumTrees must be >= 1, got %d", cfg.NumTrees)
	}
	if cfg.TreeSize < 1 {
		return fmt.Errorf("outlier: TreeSize must be >= 1, got %d", cfg.TreeSize)
	}
	if cfg.K <= 0 {
		return fmt.Errorf("outlier: K must be > 0, got %g", cfg.K)
	}
	return nil
}

// RandomCut locates multivariate outlier rows in x2 with respect to x1
// using a robust random cut forest. Unlike AdjustedBoxplot it judges rows
// as a whole, not individual cells, so it catches rows whose columns are
// each unremarkable but jointly implausible.
//
// The forest is built from random subsamples of x1. Each reference row's
// baseline anomaly score is its mean codisp over the trees containing it;
// each query row is inserted into every tree, scored, and removed again,
// and its mean codisp is compared against Tukey's fence (q75 + K·IQR) of
// the baseline scores.
//
// The query loop costs one insert+score+remove per row per tree, so the
// total runtime is O(rows(x2) × trees × tree-op). This is inherent to the
// method; it is not practical for large query sets or large forests.
func RandomCut(x1, x2 [][]float64, cfg ForestConfig) ([]bool, error) {
	if err := validateForestConfig(cfg); err != nil {
		return nil, err
	}
	if _, err := matchDims(x1, x2); err != nil {
		return nil, err
	}
	if cfg.TreeSize > len(x1) {
		return nil, fmt.Errorf("outlier: TreeSize %d exceeds reference row count %d", cfg.TreeSize, len(x1))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := buildForest(x1, cfg.NumTrees, cfg.TreeSize, rng)

	means, sampled := baselineScores(forest, len(x1))
	baseline := selectValues(means, sampled)

	scores := make([]float64, len(x2))
	treeScores := make([]float64, len(forest))
	for i, row := range x2 {
		for ti, tree := range forest {
			treeScores[ti] = scoreTransient(tree, row)
		}
		scores[i] = floats.Sum(treeScores) / float64(len(forest))
	}

	q3 := quantile(0.75, baseline)
	iqr := q3 - quantile(0.25, baseline)
	threshold := q3 + cfg.K*iqr
	mask := make([]bool, len(x2))
	for i, s := range scores {
		mask[i] = s > threshold
	}
	return mask, nil
}

// buildForest constructs random cut trees from x1 in batches. Each batch
// draws one permutation of the row indices and chunks it into
// len(x1)/treeSize disjoint subsamples of treeSize rows, one tree per
// subsample, and batches repeat until at least numTrees trees exist.
// Whole batches are kept, so the forest may end up larger than numTrees.
func buildForest(x1 [][]float64, numTrees, treeSize int, rng *rand.Rand) []*rcTree {
	n := len(x1)
	batch := n / treeSize
	forest := make([]*rcTree, 0, numTrees)
	for len(forest) < numTrees {
		perm := rng.Perm(n)
		for b := 0; b < batch; b++ {
			tree := newRCTree(rng)
			for _, rowIdx := range perm[b*treeSize : (b+1)*treeSize] {
				tree.insertPoint(x1[rowIdx], rowIdx)
			}
			forest = append(forest, tree)
		}
	}
	return forest
}

// baselineScores returns the mean codisp of each of the n reference rows
// across the trees that sampled it, along with a mask of rows that appear
// in at least one tree. Rows never sampled have no baseline score.
func baselineScores(forest []*rcTree, n int) ([]float64, []bool) {
	sums := make([]float64, n)
	counts := make([]float64, n)
	for _, tree := range forest {
		for label := range tree.leaves {
			sums[label] += tree.codisp(label)
			counts[label]++
		}
	}

	means := make([]float64, n)
	sampled := make([]bool, n)
	for i := range sums {
		if counts[i] > 0 {
			means[i] = sums[i] / counts[i]
			sampled[i] = true
		}
	}
	return means, sampled
}

// scoreTransient inserts x into the tree under the transient label, reads
// its codisp, and removes it again. The deferred removal keeps the tree
// state intact for the next evaluation no matter how this call exits.
func scoreTransient(t *rcTree, x []float64) float64 {
	t.insertPoint(x, transientLabel)
	defer t.forgetPoint(transientLabel)
	return t.codisp(transientLabel)
}
