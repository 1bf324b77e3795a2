package outlier

// medcouple returns the medcouple of xs: a robust, bounded measure of
// skewness in [-1, 1]. It is 0 for symmetric samples, positive for
// right-skewed samples and negative for left-skewed ones.
//
// This is the naive O(n²) form: with z the median-centered sorted sample,
// the statistic is the median of the kernel h(zi, zj) = (zi + zj)/(zi - zj)
// over all pairs zi >= 0 >= zj. Pairs of exact ties at the median use the
// standard sign kernel so that ties cannot make h undefined.
func medcouple(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := sortedCopy(xs)
	mf := median(s)

	// Median-centered values, still ascending. Zeros (exact median ties)
	// lead the upper slice and trail the lower slice.
	var lower, upper []float64
	ties := 0
	for _, v := range s {
		z := v - mf
		if z <= 0 {
			lower = append(lower, z)
		}
		if z >= 0 {
			upper = append(upper, z)
		}
		if z == 0 {
			ties++
		}
	}

	h := make([]float64, 0, len(lower)*len(upper))
	for a, zi := range upper {
		for b, zj := range lower {
			if zi == 0 && zj == 0 {
				// Sign kernel over the tied observations: p and q are
				// 0-based positions of the pair within the ties.
				p := a
				q := b - (len(lower) - ties)
				switch {
				case p+q < ties-1:
					h = append(h, -1)
				case p+q == ties-1:
					h = append(h, 0)
				default:
					h = append(h, 1)
				}
			} else {
				h = append(h, (zi+zj)/(zi-zj))
			}
		}
	}
	return median(h)
}
