// Package sikmeans implements shift-invariant k-means clustering.
//
// Samples are longer than centroids: a sample matches a centroid through
// the best-aligned window of centroid length, so two signals containing
// the same waveform at different offsets land in the same cluster. The
// assignment step minimizes the distance jointly over cluster index and
// window shift; the update step averages member windows at their best
// shifts.
package sikmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Metric identifies the distance used for assignment.
type Metric int

const (
	// Euclidean uses squared euclidean distance.
	Euclidean Metric = iota
	// Cosine uses cosine distance (1 - cosine similarity).
	Cosine
)

// String returns the canonical metric name.
func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Cosine:
		return "cosine"
	default:
		return fmt.Sprintf("sikmeans.Metric(%d)", int(m))
	}
}

// ParseMetric converts a metric name to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "euclidean":
		return Euclidean, nil
	case "cosine":
		return Cosine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// Errors returned by clustering functions.
var (
	ErrUnknownMetric  = errors.New("sikmeans: unknown metric")
	ErrEmptyInput     = errors.New("sikmeans: empty input")
	ErrCentroidLength = errors.New("sikmeans: centroid length must be in [1, sample length]")
	ErrInvalidK       = errors.New("sikmeans: k must be >= 1")
)

// Config holds clustering parameters.
type Config struct {
	// K is the number of clusters.
	K int
	// CentroidLength is the centroid window length; must not exceed the
	// sample length.
	CentroidLength int
	// MaxIter bounds the Lloyd iterations per initialization.
	MaxIter int
	// Tolerance stops iteration once the largest centroid movement
	// (euclidean norm) falls below it.
	Tolerance float64
	// Metric selects the assignment distance.
	Metric Metric
	// Inits is the number of random restarts; the result with the lowest
	// inertia wins.
	Inits int
	// Seed makes clustering deterministic. Restart r uses Seed + r.
	Seed int64
}

// DefaultConfig returns a workable configuration for the given cluster
// count and centroid length.
func DefaultConfig(k, centroidLength int) Config {
	return Config{
		K:              k,
		CentroidLength: centroidLength,
		MaxIter:        100,
		Tolerance:      1e-4,
		Metric:         Euclidean,
		Inits:          3,
		Seed:           1,
	}
}

// Result holds the outcome of a clustering run.
type Result struct {
	// Centroids is K x CentroidLength.
	Centroids *mat.Dense
	// Labels[i] is the cluster index of sample i.
	Labels []int
	// Shifts[i] is the window offset at which sample i best matches its
	// centroid.
	Shifts []int
	// Distances[i] is the assignment distance of sample i at its best
	// shift.
	Distances []float64
	// Counts[j] is the number of samples assigned to centroid j.
	Counts []int
	// Inertia is the sum of assignment distances.
	Inertia float64
	// Iterations is the iteration count of the winning initialization.
	Iterations int
}

// Cluster runs shift-invariant k-means on the rows of X.
func Cluster(X *mat.Dense, cfg Config) (*Result, error) {
	nSamples, sampleLen := X.Dims()
	if nSamples == 0 || sampleLen == 0 {
		return nil, ErrEmptyInput
	}
	if cfg.K < 1 {
		return nil, ErrInvalidK
	}
	if cfg.CentroidLength < 1 || cfg.CentroidLength > sampleLen {
		return nil, ErrCentroidLength
	}
	if cfg.Metric != Euclidean && cfg.Metric != Cosine {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(cfg.Metric))
	}
	if cfg.MaxIter < 1 {
		cfg.MaxIter = 1
	}
	if cfg.Inits < 1 {
		cfg.Inits = 1
	}

	norms := WindowedRowNorms(X, cfg.CentroidLength)

	var best *Result
	for init := 0; init < cfg.Inits; init++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(init)))
		res, err := clusterOnce(X, norms, cfg, rng)
		if err != nil {
			return nil, err
		}
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func clusterOnce(X *mat.Dense, norms *mat.Dense, cfg Config, rng *rand.Rand) (*Result, error) {
	_, sampleLen := X.Dims()
	clen := cfg.CentroidLength
	nShifts := sampleLen - clen + 1

	centroids := initCentroids(X, cfg.K, clen, rng)
	prev := mat.NewDense(cfg.K, clen, nil)

	var (
		labels    []int
		shifts    []int
		distances []float64
		iters     int
	)

	for iters = 1; iters <= cfg.MaxIter; iters++ {
		var err error
		labels, shifts, distances, err = Assign(X, centroids, cfg.Metric, norms)
		if err != nil {
			return nil, err
		}

		prev.Copy(centroids)
		updateCentroids(centroids, X, labels, shifts, distances, rng, nShifts)

		if maxCentroidMovement(centroids, prev) < cfg.Tolerance {
			break
		}
	}
	if iters > cfg.MaxIter {
		iters = cfg.MaxIter
	}

	// Re-assign against the final centroids so the reported labels,
	// distances, and inertia describe the returned codebook, including
	// centroids re-seeded on the last update.
	labels, shifts, distances, err := Assign(X, centroids, cfg.Metric, norms)
	if err != nil {
		return nil, err
	}

	counts := make([]int, cfg.K)
	inertia := 0.0
	for i, l := range labels {
		counts[l]++
		inertia += distances[i]
	}

	return &Result{
		Centroids:  centroids,
		Labels:     labels,
		Shifts:     shifts,
		Distances:  distances,
		Counts:     counts,
		Inertia:    inertia,
		Iterations: iters,
	}, nil
}

// initCentroids seeds each centroid from a random window of a random
// sample, using distinct samples while enough are available.
func initCentroids(X *mat.Dense, k, clen int, rng *rand.Rand) *mat.Dense {
	nSamples, sampleLen := X.Dims()
	nShifts := sampleLen - clen + 1

	perm := rng.Perm(nSamples)
	centroids := mat.NewDense(k, clen, nil)
	for j := 0; j < k; j++ {
		sample := perm[j%nSamples]
		shift := rng.Intn(nShifts)
		centroids.SetRow(j, mat.Row(nil, sample, X)[shift:shift+clen])
	}
	return centroids
}

// updateCentroids recomputes each centroid as the mean of its members'
// best-shift windows. Empty clusters are re-seeded from the sample with
// the largest assignment distance; distances itself is read-only here so
// the caller's assignment report stays intact.
func updateCentroids(centroids, X *mat.Dense, labels, shifts []int, distances []float64, rng *rand.Rand, nShifts int) {
	k, clen := centroids.Dims()

	sums := mat.NewDense(k, clen, nil)
	counts := make([]int, k)

	for i, l := range labels {
		floats.Add(sums.RawRowView(l), X.RawRowView(i)[shifts[i]:shifts[i]+clen])
		counts[l]++
	}

	var reseeded map[int]bool
	for j := 0; j < k; j++ {
		if counts[j] == 0 {
			// Re-seed from the worst-fitting sample not already used for
			// another empty cluster in this update.
			if reseeded == nil {
				reseeded = make(map[int]bool)
			}
			worst := -1
			for i, d := range distances {
				if reseeded[i] {
					continue
				}
				if worst < 0 || d > distances[worst] {
					worst = i
				}
			}
			if worst < 0 {
				worst = rng.Intn(len(distances))
			}
			reseeded[worst] = true
			shift := rng.Intn(nShifts)
			centroids.SetRow(j, X.RawRowView(worst)[shift:shift+clen])
			continue
		}
		dst := centroids.RawRowView(j)
		copy(dst, sums.RawRowView(j))
		floats.Scale(1/float64(counts[j]), dst)
	}
}

func maxCentroidMovement(cur, prev *mat.Dense) float64 {
	k, clen := cur.Dims()
	maxMove := 0.0
	for j := 0; j < k; j++ {
		sum := 0.0
		for c := 0; c < clen; c++ {
			d := cur.At(j, c) - prev.At(j, c)
			sum += d * d
		}
		if move := math.Sqrt(sum); move > maxMove {
			maxMove = move
		}
	}
	return maxMove
}
