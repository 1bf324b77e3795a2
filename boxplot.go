package outlier

import "math"

// adjustedFences computes per-column (lower, upper) outlier bounds from the
// reference matrix x1 using the adjusted boxplot of Hubert & Vandervieren:
// Tukey's fences scaled by exponentials of the medcouple, so that the fence
// on the long-tail side moves out and the fence on the short-tail side
// moves in.
func adjustedFences(x1 [][]float64, m int) (lower, upper []float64) {
	lower = make([]float64, m)
	upper = make([]float64, m)
	for j := 0; j < m; j++ {
		col := column(x1, j)
		q1 := quantile(0.25, col)
		q3 := quantile(0.75, col)
		iqr := q3 - q1
		mc := medcouple(col)
		if mc >= 0 {
			lower[j] = q1 - 1.5*math.Exp(-3.5*mc)*iqr
			upper[j] = q3 + 1.5*math.Exp(4*mc)*iqr
		} else {
			lower[j] = q1 - 1.5*math.Exp(-4*mc)*iqr
			upper[j] = q3 + 1.5*math.Exp(3.5*mc)*iqr
		}
	}
	return lower, upper
}

// AdjustedBoxplot locates univariate outlier cells in x2 with respect to
// x1 using the adjusted boxplot method. Each column is tested
// independently: a cell is flagged when it lies strictly outside the
// column's skew-adjusted fences, which are fitted on x1 alone.
//
// The method is non-parametric and robust: extreme outliers do not mask
// less extreme ones, and skewed columns do not produce one-sided
// over-flagging the way classical Tukey fences do.
//
// x1 and x2 must be non-empty rectangular matrices with the same number of
// columns. The returned mask has the shape of x2.
func AdjustedBoxplot(x1, x2 [][]float64) ([][]bool, error) {
	m, err := matchDims(x1, x2)
	if err != nil {
		return nil, err
	}

	lower, upper := adjustedFences(x1, m)
	mask := make([][]bool, len(x2))
	for i, row := range x2 {
		flags := make([]bool, m)
		for j, v := range row {
			flags[j] = v < lower[j] || v > upper[j]
		}
		mask[i] = flags
	}
	return mask, nil
}
