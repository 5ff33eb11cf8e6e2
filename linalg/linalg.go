// Package linalg is a thin adapter over the external matrix package
// (gonum.org/v1/gonum/mat) exposing exactly the dense 2-D operations the
// mean-recurrence and first-absorption solvers need: inv, det, eye, zeros,
// ones, element-wise arithmetic, and contiguous sub-block slicing. Keeping the
// solvers behind this adapter means the underlying matrix engine could be
// swapped without touching recurrence/ or absorption/.
package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense, row-major K x K (or R x C) matrix.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix wraps rows of data (row-major) into a Matrix of the given shape.
func NewMatrix(rows, cols int, data []float64) *Matrix {
	return &Matrix{d: mat.NewDense(rows, cols, data)}
}

// Zeros returns an rows x cols matrix of zeros.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{d: mat.NewDense(rows, cols, nil)}
}

// Ones returns an rows x cols matrix of ones.
func Ones(rows, cols int) *Matrix {
	m := Zeros(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

// Eye returns the n x n identity matrix.
func Eye(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Dims returns the row, column dimensions.
func (m *Matrix) Dims() (int, int) { return m.d.Dims() }

// At returns the element at (i,j).
func (m *Matrix) At(i, j int) float64 { return m.d.At(i, j) }

// Set assigns the element at (i,j).
func (m *Matrix) Set(i, j int, v float64) { m.d.Set(i, j, v) }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	_, cols := m.Dims()
	out := make([]float64, cols)
	mat.Row(out, i, m.d)
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	var d mat.Dense
	d.CloneFrom(m.d)
	return &Matrix{d: &d}
}

// Raw exposes the underlying gonum matrix for callers that need it (e.g.
// tests), without leaking the adapter's invariants to the rest of the
// engine's packages.
func (m *Matrix) Raw() *mat.Dense { return m.d }

// Sub returns the rows lo..hi-1 and columns lo2..hi2-1 as a new Matrix.
func (m *Matrix) Sub(rowLo, rowHi, colLo, colHi int) *Matrix {
	var d mat.Dense
	d.CloneFrom(m.d.Slice(rowLo, rowHi, colLo, colHi))
	return &Matrix{d: &d}
}

// SetSub writes src into m starting at (rowOff, colOff).
func (m *Matrix) SetSub(rowOff, colOff int, src *Matrix) {
	r, c := src.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(rowOff+i, colOff+j, src.At(i, j))
		}
	}
}

// Add returns m + o elementwise.
func (m *Matrix) Add(o *Matrix) *Matrix {
	var d mat.Dense
	d.Add(m.d, o.d)
	return &Matrix{d: &d}
}

// Sub2 returns m - o elementwise (named to avoid clashing with the slicing
// method Sub above).
func (m *Matrix) Sub2(o *Matrix) *Matrix {
	var d mat.Dense
	d.Sub(m.d, o.d)
	return &Matrix{d: &d}
}

// Mul returns the matrix product m * o.
func (m *Matrix) Mul(o *Matrix) *Matrix {
	var d mat.Dense
	d.Mul(m.d, o.d)
	return &Matrix{d: &d}
}

// Scale returns m scaled by c.
func (m *Matrix) Scale(c float64) *Matrix {
	var d mat.Dense
	d.Scale(c, m.d)
	return &Matrix{d: &d}
}

// ErrSingular is returned by Inv when the matrix is numerically singular.
var ErrSingular = fmt.Errorf("linalg: matrix is singular")

// Inv returns the inverse of m, or ErrSingular if m is (near) singular.
func (m *Matrix) Inv() (*Matrix, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("linalg: Inv requires a square matrix, got %dx%d", r, c)
	}
	var d mat.Dense
	if err := d.Inverse(m.d); err != nil {
		return nil, ErrSingular
	}
	return &Matrix{d: &d}, nil
}

// Det returns the determinant of m.
func (m *Matrix) Det() float64 {
	return mat.Det(m.d)
}

// ColSum returns the sum of column i.
func (m *Matrix) ColSum(i int) float64 {
	rows, _ := m.Dims()
	s := 0.0
	for r := 0; r < rows; r++ {
		s += m.At(r, i)
	}
	return s
}
