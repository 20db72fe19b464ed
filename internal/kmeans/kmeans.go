// Package kmeans clusters the rows of a sparse TF-IDF matrix with Lloyd's
// algorithm, k-means++ seeding and a fixed number of seeded restarts.
package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

// Config controls a clustering run.
type Config struct {
	K             int
	Seed          uint64
	Restarts      int
	MaxIterations int
	Tolerance     float64 // total squared centroid shift that counts as converged
	Workers       int     // parallel restarts; 0 = GOMAXPROCS
}

// DefaultConfig returns k=8, seed=42, 10 restarts, 300 iterations, tol=1e-4.
func DefaultConfig() Config {
	return Config{
		K:             8,
		Seed:          42,
		Restarts:      10,
		MaxIterations: 300,
		Tolerance:     1e-4,
	}
}

// Result is the best clustering found across restarts.
type Result struct {
	Centroids  [][]float64
	Labels     []int
	Inertia    float64
	Iterations int
	Restart    int
}

// Run clusters the rows of m. The outcome depends only on m and cfg.
func Run(ctx context.Context, m *tfidf.Matrix, cfg Config) (Result, error) {
	n := m.Rows()
	if cfg.K < 1 || cfg.K > n {
		return Result{}, fmt.Errorf("k must be between 1 and %d, got %d", n, cfg.K)
	}
	if cfg.Restarts < 1 {
		cfg.Restarts = 1
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pts := newPoints(m)
	results := make([]Result, cfg.Restarts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r := 0; r < cfg.Restarts; r++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("restart %d: %w", r, err)
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(r)))
			res := lloyd(pts, cfg, rng)
			res.Restart = r
			results[r] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := 0
	for r := 1; r < len(results); r++ {
		if results[r].Inertia < results[best].Inertia {
			best = r
		}
	}
	return results[best], nil
}

type points struct {
	rows  []tfidf.Vector
	norms []float64 // squared norms
	dim   int
}

func newPoints(m *tfidf.Matrix) *points {
	p := &points{
		rows:  make([]tfidf.Vector, m.Rows()),
		norms: make([]float64, m.Rows()),
		dim:   m.Cols(),
	}
	for i := range p.rows {
		p.rows[i] = m.Row(i)
		var s float64
		for _, v := range p.rows[i].Values {
			s += v * v
		}
		p.norms[i] = s
	}
	return p
}

func (p *points) dist(i int, c []float64, cNorm float64) float64 {
	d := p.norms[i] + cNorm - 2*tfidf.DotDense(p.rows[i], c)
	if d < 0 {
		return 0
	}
	return d
}

func (p *points) dense(i int) []float64 {
	c := make([]float64, p.dim)
	for k, j := range p.rows[i].Indices {
		c[j] = p.rows[i].Values[k]
	}
	return c
}

func sqNorm(c []float64) float64 {
	var s float64
	for _, v := range c {
		s += v * v
	}
	return s
}

// seedPlusPlus picks k initial centroids with probability proportional to the
// squared distance from the nearest centroid chosen so far.
func seedPlusPlus(p *points, k int, rng *rand.Rand) [][]float64 {
	n := len(p.rows)
	chosen := make([]bool, n)
	centroids := make([][]float64, 0, k)

	first := rng.IntN(n)
	chosen[first] = true
	centroids = append(centroids, p.dense(first))

	closest := make([]float64, n)
	c0Norm := sqNorm(centroids[0])
	for i := range closest {
		closest[i] = p.dist(i, centroids[0], c0Norm)
	}

	for len(centroids) < k {
		var total float64
		for _, d := range closest {
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range closest {
				acc += d
				if acc > target && d > 0 {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Fewer distinct points than k: fall back to a random unused row.
			free := make([]int, 0, n)
			for i, used := range chosen {
				if !used {
					free = append(free, i)
				}
			}
			next = free[rng.IntN(len(free))]
		}

		chosen[next] = true
		c := p.dense(next)
		centroids = append(centroids, c)
		cNorm := sqNorm(c)
		for i := range closest {
			if d := p.dist(i, c, cNorm); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centroids
}

func lloyd(p *points, cfg Config, rng *rand.Rand) Result {
	n, k := len(p.rows), cfg.K
	centroids := seedPlusPlus(p, k, rng)
	cNorms := make([]float64, k)
	labels := make([]int, n)
	dists := make([]float64, n)

	iter := 0
	for iter < cfg.MaxIterations {
		iter++
		for c := range centroids {
			cNorms[c] = sqNorm(centroids[c])
		}
		assign(p, centroids, cNorms, labels, dists)

		next, counts := recompute(p, labels, k)
		relocateEmpty(p, next, counts, labels, dists)

		var shift float64
		for c := range next {
			for j := range next[c] {
				d := next[c][j] - centroids[c][j]
				shift += d * d
			}
		}
		centroids = next
		if shift <= cfg.Tolerance {
			break
		}
	}

	for c := range centroids {
		cNorms[c] = sqNorm(centroids[c])
	}
	inertia := assign(p, centroids, cNorms, labels, dists)
	return Result{Centroids: centroids, Labels: labels, Inertia: inertia, Iterations: iter}
}

// assign labels every point with its nearest centroid (lowest index on ties)
// and returns the inertia.
func assign(p *points, centroids [][]float64, cNorms []float64, labels []int, dists []float64) float64 {
	var inertia float64
	for i := range p.rows {
		best, bestD := 0, math.Inf(1)
		for c := range centroids {
			if d := p.dist(i, centroids[c], cNorms[c]); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		dists[i] = bestD
		inertia += bestD
	}
	return inertia
}

func recompute(p *points, labels []int, k int) ([][]float64, []int) {
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, p.dim)
	}
	counts := make([]int, k)
	for i, row := range p.rows {
		c := labels[i]
		counts[c]++
		for kk, j := range row.Indices {
			sums[c][j] += row.Values[kk]
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		inv := 1 / float64(counts[c])
		for j := range sums[c] {
			sums[c][j] *= inv
		}
	}
	return sums, counts
}

// relocateEmpty moves each empty centroid onto the point farthest from its
// current centroid. Each point is used at most once.
func relocateEmpty(p *points, centroids [][]float64, counts, labels []int, dists []float64) {
	used := make(map[int]bool)
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		far, farD := -1, -1.0
		for i := range p.rows {
			if used[i] || counts[labels[i]] <= 1 {
				continue
			}
			if dists[i] > farD {
				far, farD = i, dists[i]
			}
		}
		if far < 0 {
			continue
		}
		used[far] = true
		counts[labels[far]]--
		counts[c] = 1
		centroids[c] = p.dense(far)
	}
}
