package outlier

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// dims returns the column count of x after verifying that x is a non-empty
// rectangular matrix. name identifies the argument in error messages.
func dims(x [][]float64, name string) (int, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("outlier: %s must not be empty", name)
	}
	m := len(x[0])
	if m == 0 {
		return 0, fmt.Errorf("outlier: %s must have at least one column", name)
	}
	for i, row := range x {
		if len(row) != m {
			return 0, fmt.Errorf("outlier: %s is not a matrix: row %d has %d columns, row 0 has %d", name, i, len(row), m)
		}
	}
	return m, nil
}

// matchDims validates x1 and x2 and checks that they have the same number
// of columns, returning that count.
func matchDims(x1, x2 [][]float64) (int, error) {
	m1, err := dims(x1, "x1")
	if err != nil {
		return 0, err
	}
	m2, err := dims(x2, "x2")
	if err != nil {
		return 0, err
	}
	if m1 != m2 {
		return 0, fmt.Errorf("outlier: x1 and x2 must have the same number of columns, got %d and %d", m1, m2)
	}
	return m1, nil
}

// column extracts column j of x into a new slice.
func column(x [][]float64, j int) []float64 {
	col := make([]float64, len(x))
	for i, row := range x {
		col[i] = row[j]
	}
	return col
}

// sortedCopy returns an ascending copy of xs.
func sortedCopy(xs []float64) []float64 {
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	return cp
}

// quantile returns the p-quantile of xs using linear interpolation of the
// empirical CDF. xs need not be sorted.
func quantile(p float64, xs []float64) float64 {
	return stat.Quantile(p, stat.LinInterp, sortedCopy(xs), nil)
}

// median returns the middle value of xs (mean of the two middle values for
// even lengths).
func median(xs []float64) float64 {
	cp := sortedCopy(xs)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return 0.5 * (cp[n/2-1] + cp[n/2])
}

// columnStack appends targets as a final column to inputs. name identifies
// the split in error messages.
func columnStack(inputs [][]float64, targets []float64, name string) ([][]float64, error) {
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("outlier: %s inputs and targets must have the same length, got %d and %d", name, len(inputs), len(targets))
	}
	stacked := make([][]float64, len(inputs))
	for i, row := range inputs {
		s := make([]float64, len(row)+1)
		copy(s, row)
		s[len(row)] = targets[i]
		stacked[i] = s
	}
	return stacked, nil
}

// selectRows returns the rows of x whose mask entry is true.
func selectRows(x [][]float64, mask []bool) [][]float64 {
	var out [][]float64
	for i, keep := range mask {
		if keep {
			out = append(out, x[i])
		}
	}
	return out
}

// selectValues returns the values of xs whose mask entry is true.
func selectValues(xs []float64, mask []bool) []float64 {
	var out []float64
	for i, keep := range mask {
		if keep {
			out = append(out, xs[i])
		}
	}
	return out
}
