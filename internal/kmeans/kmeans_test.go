package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

func matrixFromRows(t *testing.T, cols int, rows [][]float64) *tfidf.Matrix {
	t.Helper()
	s := tfidf.MatrixState{Rows: len(rows), Cols: cols, Indptr: []int{0}}
	for _, r := range rows {
		for j, v := range r {
			if v != 0 {
				s.Indices = append(s.Indices, j)
				s.Data = append(s.Data, v)
			}
		}
		s.Indptr = append(s.Indptr, len(s.Data))
	}
	m, err := tfidf.MatrixFromState(s)
	require.NoError(t, err)
	return m
}

// twoGroups has rows 0-2 along the first axis and rows 3-5 along the second.
func twoGroups(t *testing.T) *tfidf.Matrix {
	return matrixFromRows(t, 3, [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0.95, 0, 0.05},
		{0, 1, 0},
		{0.1, 0.9, 0},
		{0, 0.95, 0.05},
	})
}

func TestRun_SeparatesGroups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 2
	res, err := Run(context.Background(), twoGroups(t), cfg)
	require.NoError(t, err)

	require.Len(t, res.Labels, 6)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[0], res.Labels[2])
	assert.Equal(t, res.Labels[3], res.Labels[4])
	assert.Equal(t, res.Labels[3], res.Labels[5])
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
	assert.Len(t, res.Centroids, 2)
	assert.Greater(t, res.Iterations, 0)
}

func TestRun_Deterministic(t *testing.T) {
	m := twoGroups(t)
	cfg := DefaultConfig()
	cfg.K = 3

	first, err := Run(context.Background(), m, cfg)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), m, cfg)
		require.NoError(t, err)
		assert.Equal(t, first.Labels, again.Labels)
		assert.Equal(t, first.Inertia, again.Inertia)
		assert.Equal(t, first.Restart, again.Restart)
	}
}

func TestRun_WorkersDoNotChangeResult(t *testing.T) {
	m := twoGroups(t)
	cfg := DefaultConfig()
	cfg.K = 2

	cfg.Workers = 1
	serial, err := Run(context.Background(), m, cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	parallel, err := Run(context.Background(), m, cfg)
	require.NoError(t, err)

	assert.Equal(t, serial.Labels, parallel.Labels)
	assert.Equal(t, serial.Inertia, parallel.Inertia)
}

func TestRun_KEqualsN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 6
	res, err := Run(context.Background(), twoGroups(t), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.Inertia, 1e-12)
}

func TestRun_DuplicatePoints(t *testing.T) {
	m := matrixFromRows(t, 2, [][]float64{{1, 0}, {1, 0}, {1, 0}, {0, 1}})
	cfg := DefaultConfig()
	cfg.K = 3
	res, err := Run(context.Background(), m, cfg)
	require.NoError(t, err)
	assert.Len(t, res.Labels, 4)
}

func TestRun_ZeroRows(t *testing.T) {
	m := matrixFromRows(t, 2, [][]float64{{0, 0}, {0, 0}, {1, 0}})
	cfg := DefaultConfig()
	cfg.K = 2
	res, err := Run(context.Background(), m, cfg)
	require.NoError(t, err)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.NotEqual(t, res.Labels[0], res.Labels[2])
}

func TestRun_InvalidK(t *testing.T) {
	m := twoGroups(t)
	for _, k := range []int{0, -1, 7} {
		cfg := DefaultConfig()
		cfg.K = k
		_, err := Run(context.Background(), m, cfg)
		assert.Error(t, err, "k=%d", k)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := DefaultConfig()
	cfg.K = 2
	_, err := Run(ctx, twoGroups(t), cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
