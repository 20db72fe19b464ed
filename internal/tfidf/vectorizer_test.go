package tfidf

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeDocs are the processed forms of:
//
//	"Data Analyst SQL Python analysis"
//	"Software Engineer Java backend systems"
//	"Data Scientist Python machine learning"
var threeDocs = []string{
	"data analyst sql python analysis",
	"software engineer java backend systems",
	"data scientist python machine learning",
}

func TestFit_ThreeDocs(t *testing.T) {
	v, m, err := Fit(threeDocs, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "python"}, v.Terms())
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())

	wantIDF := math.Log(4.0/3.0) + 1
	assert.InDelta(t, wantIDF, v.IDF()[0], 1e-12)
	assert.InDelta(t, wantIDF, v.IDF()[1], 1e-12)

	assert.InDelta(t, 1.0, m.Row(0).Norm(), 1e-12)
	assert.True(t, m.Row(1).IsZero())
	assert.InDelta(t, 1.0, m.Row(2).Norm(), 1e-12)

	q := v.Transform("data python")
	scores := m.MulVec(q)
	assert.InDelta(t, 1.0, scores[0], 1e-12)
	assert.Equal(t, 0.0, scores[1])
	assert.InDelta(t, 1.0, scores[2], 1e-12)
}

func TestFit_MaxDFCeiling(t *testing.T) {
	docs := []string{
		"python java cloud",
		"python cloud docker",
		"python sql docker",
		"python sql kafka",
		"python kafka",
	}
	v, m, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)

	_, hasPython := v.Index("python")
	assert.False(t, hasPython, "term in every document must exceed max_df")
	_, hasJava := v.Index("java")
	assert.False(t, hasJava, "term in one document is below min_df")

	for _, term := range []string{"cloud", "docker", "sql", "kafka"} {
		_, ok := v.Index(term)
		assert.True(t, ok, "expected %q in vocabulary", term)
	}
	assert.Equal(t, 5, m.Rows())
}

func TestFit_DocumentFrequencyBounds(t *testing.T) {
	docs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		docs = append(docs, fmt.Sprintf("common shared term%d alpha%d beta%d", i%7, i%3, i%11))
	}
	v, m, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)

	df := make([]int, v.Size())
	for i := 0; i < m.Rows(); i++ {
		for _, j := range m.Row(i).Indices {
			df[j]++
		}
		n := m.Row(i).Norm()
		if n != 0 {
			assert.InDelta(t, 1.0, n, 1e-9)
		}
	}
	for j, d := range df {
		assert.GreaterOrEqual(t, d, 2, "term %q", v.Terms()[j])
		assert.LessOrEqual(t, float64(d), 0.8*float64(len(docs)), "term %q", v.Terms()[j])
	}
}

func TestFit_MaxFeatures(t *testing.T) {
	docs := []string{
		"alpha beta gamma",
		"alpha beta gamma alpha",
		"delta alpha beta",
		"delta epsilon",
		"epsilon zeta",
		"zeta omega",
	}
	opts := DefaultOptions()
	opts.MaxFeatures = 3
	v, _, err := Fit(docs, opts)
	require.NoError(t, err)

	// alpha(4), then "alpha beta" and beta tie at 3 and alphabetical order wins.
	assert.Equal(t, []string{"alpha", "alpha beta", "beta"}, v.Terms())
}

func TestFit_VocabularyCap(t *testing.T) {
	docs := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		doc := ""
		for w := 0; w < 400; w++ {
			doc += fmt.Sprintf("w%dx%d ", w, i%4)
		}
		docs = append(docs, doc)
	}
	v, _, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, v.Size(), 1000)
	for i := 1; i < v.Size(); i++ {
		assert.Less(t, v.Terms()[i-1], v.Terms()[i])
	}
}

func TestFit_Bigrams(t *testing.T) {
	docs := []string{
		"machine learning engineer",
		"machine learning scientist",
		"data engineer",
		"platform team",
	}
	v, _, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)
	_, ok := v.Index("machine learning")
	assert.True(t, ok)
}

func TestFit_Errors(t *testing.T) {
	tests := []struct {
		name string
		docs []string
	}{
		{"empty corpus", nil},
		{"only empty documents", []string{"", ""}},
		{"all unique terms", []string{"alpha", "beta", "gamma"}},
		{"max_df below min_df", []string{"alpha beta", "alpha beta"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Fit(tc.docs, DefaultOptions())
			assert.True(t, errors.Is(err, ErrNoTerms), "got %v", err)
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	bad := []Options{
		{MaxFeatures: -1, MinDF: 2, MaxDF: 0.8, NgramMin: 1, NgramMax: 2},
		{MinDF: 0, MaxDF: 0.8, NgramMin: 1, NgramMax: 2},
		{MinDF: 2, MaxDF: 0, NgramMin: 1, NgramMax: 2},
		{MinDF: 2, MaxDF: 1.5, NgramMin: 1, NgramMax: 2},
		{MinDF: 2, MaxDF: 0.8, NgramMin: 2, NgramMax: 1},
	}
	for i, o := range bad {
		assert.Error(t, o.Validate(), "case %d", i)
	}
	assert.NoError(t, DefaultOptions().Validate())
}

func TestTransform_UnknownTerms(t *testing.T) {
	v, _, err := Fit(threeDocs, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, v.Transform("kubernetes rust").IsZero())
	assert.Equal(t, 0, v.Transform("").Len())

	q := v.Transform("python python rust")
	require.Equal(t, 1, q.Len())
	assert.InDelta(t, 1.0, q.Values[0], 1e-12)
}

func TestTransformAll_MatchesFit(t *testing.T) {
	v, m, err := Fit(threeDocs, DefaultOptions())
	require.NoError(t, err)
	again := v.TransformAll(threeDocs)
	assert.Equal(t, m.State(), again.State())
}

func TestState_RoundTrip(t *testing.T) {
	v, m, err := Fit(threeDocs, DefaultOptions())
	require.NoError(t, err)

	v2, err := FromState(v.State())
	require.NoError(t, err)
	assert.Equal(t, v.Terms(), v2.Terms())

	m2, err := MatrixFromState(m.State())
	require.NoError(t, err)
	assert.Equal(t, m.MulVec(v.Transform("data")), m2.MulVec(v2.Transform("data")))
}

func TestFromState_Invalid(t *testing.T) {
	good := State{Options: DefaultOptions(), Terms: []string{"a", "b"}, IDF: []float64{1, 1.5}}
	_, err := FromState(good)
	require.NoError(t, err)

	tests := []struct {
		name string
		s    State
	}{
		{"empty", State{Options: DefaultOptions()}},
		{"length mismatch", State{Options: DefaultOptions(), Terms: []string{"a"}, IDF: []float64{1, 2}}},
		{"unsorted", State{Options: DefaultOptions(), Terms: []string{"b", "a"}, IDF: []float64{1, 1}}},
		{"idf below one", State{Options: DefaultOptions(), Terms: []string{"a"}, IDF: []float64{0.5}}},
		{"bad options", State{Terms: []string{"a"}, IDF: []float64{1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromState(tc.s)
			assert.Error(t, err)
		})
	}
}

func TestMatrixFromState_Invalid(t *testing.T) {
	tests := []struct {
		name string
		s    MatrixState
	}{
		{"indptr length", MatrixState{Rows: 2, Cols: 1, Indptr: []int{0}}},
		{"indices/data mismatch", MatrixState{Rows: 1, Cols: 1, Indptr: []int{0, 1}, Indices: []int{0}}},
		{"column out of range", MatrixState{Rows: 1, Cols: 1, Indptr: []int{0, 1}, Indices: []int{3}, Data: []float64{1}}},
		{"negative weight", MatrixState{Rows: 1, Cols: 1, Indptr: []int{0, 1}, Indices: []int{0}, Data: []float64{-1}}},
		{"unsorted columns", MatrixState{
			Rows: 1, Cols: 3, Indptr: []int{0, 2}, Indices: []int{2, 1}, Data: []float64{1, 1},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MatrixFromState(tc.s)
			assert.Error(t, err)
		})
	}
}

func TestColumnSums(t *testing.T) {
	v, m, err := Fit(threeDocs, DefaultOptions())
	require.NoError(t, err)
	sums := m.ColumnSums()
	require.Len(t, sums, v.Size())
	assert.InDelta(t, 2/math.Sqrt2, sums[0], 1e-12)
	assert.InDelta(t, 2/math.Sqrt2, sums[1], 1e-12)
}

func TestDot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}
	assert.Equal(t, 14.0, Dot(a, b))
	assert.Equal(t, 0.0, Dot(a, Vector{}))
}
