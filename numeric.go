package outlier

import (
	"fmt"
	"math"
)

// DefaultFrac is the distinct-value fraction used by Locate when deciding
// whether a column is continuous.
const DefaultFrac = 0.05

// IsNumeric reports, per column of x, whether the column should be treated
// as continuous rather than categorical. A column is numeric if it
// contains at least one non-integer value, or if its count of distinct
// values exceeds rows*frac.
//
// frac must lie in [0, 1] and x must be a non-empty rectangular matrix.
func IsNumeric(x [][]float64, frac float64) ([]bool, error) {
	if frac < 0 || frac > 1 {
		return nil, fmt.Errorf("outlier: frac must be in [0, 1], got %g", frac)
	}
	m, err := dims(x, "x")
	if err != nil {
		return nil, err
	}

	maxCategories := float64(len(x)) * frac
	numeric := make([]bool, m)
	for j := 0; j < m; j++ {
		distinct := make(map[float64]struct{}, len(x))
		for _, row := range x {
			v := row[j]
			if v != math.Trunc(v) {
				numeric[j] = true
			}
			distinct[v] = struct{}{}
		}
		if float64(len(distinct)) > maxCategories {
			numeric[j] = true
		}
	}
	return numeric, nil
}
