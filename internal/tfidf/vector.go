package tfidf

import "math"

// Vector is a sparse vector with strictly increasing column indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored entries.
func (v Vector) Len() int { return len(v.Indices) }

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var s float64
	for _, x := range v.Values {
		s += x * x
	}
	return math.Sqrt(s)
}

// Dot returns the inner product of two sparse vectors.
func Dot(a, b Vector) float64 {
	var s float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			s += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return s
}

// DotDense returns the inner product of a sparse vector and a dense one.
func DotDense(a Vector, dense []float64) float64 {
	var s float64
	for k, idx := range a.Indices {
		s += a.Values[k] * dense[idx]
	}
	return s
}

// normalize scales values in place to unit L2 norm. Zero vectors are left unchanged.
func normalize(values []float64) {
	var s float64
	for _, x := range values {
		s += x * x
	}
	if s == 0 {
		return
	}
	n := math.Sqrt(s)
	for i := range values {
		values[i] /= n
	}
}
