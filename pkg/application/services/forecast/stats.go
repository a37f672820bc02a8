package forecast

import (
	"fmt"
	"math"
)

// mean returns the arithmetic mean of values
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance returns the sample variance of values
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

// autocorrelation returns the sample autocorrelation of values at the given
// lag
func autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}
	m := mean(values)
	var num, den float64
	for i := 0; i < n; i++ {
		d := values[i] - m
		den += d * d
	}
	if den == 0 {
		return 0
	}
	for i := lag; i < n; i++ {
		num += (values[i] - m) * (values[i-lag] - m)
	}
	return num / den
}

// difference applies first differencing d times
func difference(values []float64, d int) []float64 {
	out := values
	for k := 0; k < d; k++ {
		if len(out) < 2 {
			return nil
		}
		next := make([]float64, len(out)-1)
		for i := 1; i < len(out); i++ {
			next[i-1] = out[i] - out[i-1]
		}
		out = next
	}
	return out
}

// seasonalDifference subtracts the value one period earlier
func seasonalDifference(values []float64, period int) []float64 {
	if len(values) <= period {
		return nil
	}
	out := make([]float64, len(values)-period)
	for i := period; i < len(values); i++ {
		out[i-period] = values[i] - values[i-period]
	}
	return out
}

// solveLinearSystem solves A x = b in place using Gaussian elimination with
// partial pivoting. A is row-major n×n. Returns an error on a (near-)singular
// system.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		// Pivot selection.
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		// Eliminate below.
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	// Back substitution.
	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

// olsFit performs ordinary least squares of y on the design matrix X
// (including any intercept column the caller added) via the normal equations.
// Returns coefficients and the residual sum of squares.
func olsFit(x [][]float64, y []float64) ([]float64, float64, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, 0, fmt.Errorf("design matrix and response length mismatch")
	}
	k := len(x[0])
	if n <= k {
		return nil, 0, fmt.Errorf("need more observations (%d) than parameters (%d)", n, k)
	}

	// X'X and X'y.
	xtx := make([][]float64, k)
	xty := make([]float64, k)
	for i := 0; i < k; i++ {
		xtx[i] = make([]float64, k)
	}
	for row := 0; row < n; row++ {
		for i := 0; i < k; i++ {
			xty[i] += x[row][i] * y[row]
			for j := i; j < k; j++ {
				xtx[i][j] += x[row][i] * x[row][j]
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	coeffs, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, 0, err
	}

	var rss float64
	for row := 0; row < n; row++ {
		var fitted float64
		for i := 0; i < k; i++ {
			fitted += coeffs[i] * x[row][i]
		}
		resid := y[row] - fitted
		rss += resid * resid
	}
	return coeffs, rss, nil
}

// normalQuantile returns the standard normal quantile for probability p using
// the Acklam rational approximation. Accurate to ~1e-9, deterministic.
func normalQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		return math.NaN()
	}

	a := []float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := []float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := []float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := []float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const plow = 0.02425
	switch {
	case p < plow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > 1-plow:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}
