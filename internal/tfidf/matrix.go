package tfidf

import (
	"errors"
	"fmt"
)

// Matrix is an immutable CSR (compressed sparse row) weight matrix.
// Row i holds the weights of document i; columns follow vocabulary order.
type Matrix struct {
	rows    int
	cols    int
	indptr  []int
	indices []int
	data    []float64
}

// MatrixState is the serializable form of a Matrix.
type MatrixState struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Indptr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

// Rows returns the number of documents.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the vocabulary size.
func (m *Matrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.data) }

// Row returns a read-only view of row i.
func (m *Matrix) Row(i int) Vector {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return Vector{Indices: m.indices[lo:hi], Values: m.data[lo:hi]}
}

// MulVec returns the dot product of every row with v.
func (m *Matrix) MulVec(v Vector) []float64 {
	out := make([]float64, m.rows)
	if v.Len() == 0 {
		return out
	}
	dense := make([]float64, m.cols)
	for k, idx := range v.Indices {
		dense[idx] = v.Values[k]
	}
	for i := 0; i < m.rows; i++ {
		out[i] = DotDense(m.Row(i), dense)
	}
	return out
}

// ColumnSums returns the sum of every column.
func (m *Matrix) ColumnSums() []float64 {
	sums := make([]float64, m.cols)
	for k, col := range m.indices {
		sums[col] += m.data[k]
	}
	return sums
}

// State returns the serializable form of the matrix.
func (m *Matrix) State() MatrixState {
	return MatrixState{
		Rows:    m.rows,
		Cols:    m.cols,
		Indptr:  m.indptr,
		Indices: m.indices,
		Data:    m.data,
	}
}

// MatrixFromState validates and rebuilds a Matrix.
func MatrixFromState(s MatrixState) (*Matrix, error) {
	if s.Rows < 0 || s.Cols < 0 {
		return nil, errors.New("matrix: negative shape")
	}
	if len(s.Indptr) != s.Rows+1 {
		return nil, fmt.Errorf("matrix: indptr length %d, want %d", len(s.Indptr), s.Rows+1)
	}
	if len(s.Indices) != len(s.Data) {
		return nil, fmt.Errorf("matrix: %d indices but %d values", len(s.Indices), len(s.Data))
	}
	if s.Indptr[0] != 0 || s.Indptr[s.Rows] != len(s.Data) {
		return nil, errors.New("matrix: indptr does not span data")
	}
	for i := 0; i < s.Rows; i++ {
		lo, hi := s.Indptr[i], s.Indptr[i+1]
		if lo > hi {
			return nil, fmt.Errorf("matrix: indptr decreases at row %d", i)
		}
		prev := -1
		for k := lo; k < hi; k++ {
			c := s.Indices[k]
			if c <= prev || c >= s.Cols {
				return nil, fmt.Errorf("matrix: bad column %d in row %d", c, i)
			}
			if s.Data[k] < 0 {
				return nil, fmt.Errorf("matrix: negative weight in row %d", i)
			}
			prev = c
		}
	}
	return &Matrix{
		rows:    s.Rows,
		cols:    s.Cols,
		indptr:  s.Indptr,
		indices: s.Indices,
		data:    s.Data,
	}, nil
}

// matrixBuilder appends rows in order.
type matrixBuilder struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
}

func newMatrixBuilder(rows, cols int) *matrixBuilder {
	return &matrixBuilder{cols: cols, indptr: make([]int, 1, rows+1)}
}

func (b *matrixBuilder) add(v Vector) {
	b.indices = append(b.indices, v.Indices...)
	b.data = append(b.data, v.Values...)
	b.indptr = append(b.indptr, len(b.data))
}

func (b *matrixBuilder) build() *Matrix {
	return &Matrix{
		rows:    len(b.indptr) - 1,
		cols:    b.cols,
		indptr:  b.indptr,
		indices: b.indices,
		data:    b.data,
	}
}
