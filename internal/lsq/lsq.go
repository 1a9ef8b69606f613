// Package lsq fits low-degree polynomials to sample points by least squares.
//
// The solver decomposes the Vandermonde matrix with Gram-Schmidt QR and
// back-substitutes through the triangular factor. All samples weigh the same.
package lsq

import "math"

// degenerate is the column norm below which the data is treated as
// collinear and no fit is produced.
const degenerate = 1e-9

// Fit returns the coefficients c[0] + c[1]x + ... + c[degree]x^degree that
// minimise the squared error over the points (xs[i], ys[i]).
// ok is false if there are not more points than the degree, the slices differ
// in length, or the abscissas are too close to separate.
func Fit(xs, ys []float64, degree int) (coef []float64, ok bool) {
	n := len(xs)
	if degree < 0 || n != len(ys) || n <= degree {
		return nil, false
	}
	m := degree + 1

	// a[j] is column j of the Vandermonde matrix, x^j per sample.
	a := make([][]float64, m)
	for j := range a {
		a[j] = make([]float64, n)
		for i, x := range xs {
			if j == 0 {
				a[j][i] = 1
			} else {
				a[j][i] = a[j-1][i] * x
			}
		}
	}

	// q holds orthonormal columns, r is upper triangular with a = q*r.
	q := make([][]float64, m)
	r := make([][]float64, m)
	for j := 0; j < m; j++ {
		r[j] = make([]float64, m)
		q[j] = append([]float64(nil), a[j]...)
		for k := 0; k < j; k++ {
			d := dot(q[k], q[j])
			for i := range q[j] {
				q[j][i] -= d * q[k][i]
			}
		}
		nrm := math.Sqrt(dot(q[j], q[j]))
		if nrm < degenerate {
			return nil, false
		}
		for i := range q[j] {
			q[j][i] /= nrm
		}
		for k := j; k < m; k++ {
			r[j][k] = dot(q[j], a[k])
		}
	}

	// Solve r*coef = qᵀ*ys from the bottom row up.
	coef = make([]float64, m)
	for j := m - 1; j >= 0; j-- {
		v := dot(q[j], ys)
		for k := j + 1; k < m; k++ {
			v -= r[j][k] * coef[k]
		}
		coef[j] = v / r[j][j]
	}
	return coef, true
}

func dot(u, v []float64) float64 {
	var s float64
	for i := range u {
		s += u[i] * v[i]
	}
	return s
}
