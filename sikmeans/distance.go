package sikmeans

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// WindowedRowNorms computes the squared euclidean norm of every
// centroid-length window of every sample row. The result is
// shifts x samples: entry (s, i) is |X[i][s:s+centroidLen]|^2.
//
// Norms are maintained with a sliding update, so the cost is linear in
// the sample length rather than quadratic.
func WindowedRowNorms(X *mat.Dense, centroidLen int) *mat.Dense {
	nSamples, sampleLen := X.Dims()
	nShifts := sampleLen - centroidLen + 1
	if nShifts < 1 {
		return mat.NewDense(1, nSamples, nil)
	}

	norms := mat.NewDense(nShifts, nSamples, nil)
	for i := 0; i < nSamples; i++ {
		row := X.RawRowView(i)

		sum := 0.0
		for _, v := range row[:centroidLen] {
			sum += v * v
		}
		norms.Set(0, i, sum)

		for s := 1; s < nShifts; s++ {
			out := row[s-1]
			in := row[s+centroidLen-1]
			sum += in*in - out*out
			norms.Set(s, i, sum)
		}
	}
	return norms
}

// Distances computes squared euclidean distances from every centroid to
// every centroid-length window of every sample: the result is indexed
// [shift][centroid][sample].
//
// norms must be the output of [WindowedRowNorms] for X and the centroid
// length; pass nil to have it computed internally.
func Distances(centroids, X *mat.Dense, norms *mat.Dense) [][][]float64 {
	nCentroids, clen := centroids.Dims()
	nSamples, sampleLen := X.Dims()
	nShifts := sampleLen - clen + 1

	if norms == nil {
		norms = WindowedRowNorms(X, clen)
	}

	c2 := make([]float64, nCentroids)
	for j := 0; j < nCentroids; j++ {
		crow := centroids.RawRowView(j)
		c2[j] = vecmath.DotProduct(crow, crow)
	}

	out := make([][][]float64, nShifts)
	for s := 0; s < nShifts; s++ {
		out[s] = make([][]float64, nCentroids)
		for j := 0; j < nCentroids; j++ {
			crow := centroids.RawRowView(j)
			dists := make([]float64, nSamples)
			for i := 0; i < nSamples; i++ {
				w := X.RawRowView(i)[s : s+clen]
				d := c2[j] - 2*vecmath.DotProduct(crow, w) + norms.At(s, i)
				if d < 0 {
					d = 0
				}
				dists[i] = d
			}
			out[s][j] = dists
		}
	}
	return out
}

// Assign finds, for every sample, the centroid and window shift with the
// minimum distance. It returns per-sample labels, shifts, and distances
// (squared euclidean, or cosine distance for the Cosine metric).
func Assign(X, centroids *mat.Dense, metric Metric, norms *mat.Dense) (labels, shifts []int, distances []float64, err error) {
	nCentroids, clen := centroids.Dims()
	nSamples, sampleLen := X.Dims()
	nShifts := sampleLen - clen + 1

	if nSamples == 0 || nCentroids == 0 || nShifts < 1 {
		return nil, nil, nil, ErrEmptyInput
	}

	switch metric {
	case Euclidean:
	case Cosine:
	default:
		return nil, nil, nil, ErrUnknownMetric
	}

	if norms == nil {
		norms = WindowedRowNorms(X, clen)
	}

	// Per-centroid precomputation: squared norms for euclidean,
	// unit-normalized rows for cosine.
	c2 := make([]float64, nCentroids)
	unit := make([][]float64, nCentroids)
	for j := 0; j < nCentroids; j++ {
		crow := centroids.RawRowView(j)
		n2 := vecmath.DotProduct(crow, crow)
		c2[j] = n2
		if metric == Cosine {
			u := make([]float64, clen)
			if n2 > 0 {
				vecmath.ScaleBlock(u, crow, 1/math.Sqrt(n2))
			}
			unit[j] = u
		}
	}

	labels = make([]int, nSamples)
	shifts = make([]int, nSamples)
	distances = make([]float64, nSamples)
	for i := range distances {
		distances[i] = math.Inf(1)
	}

	for s := 0; s < nShifts; s++ {
		for i := 0; i < nSamples; i++ {
			w := X.RawRowView(i)[s : s+clen]
			w2 := norms.At(s, i)

			for j := 0; j < nCentroids; j++ {
				var d float64
				if metric == Euclidean {
					d = c2[j] - 2*vecmath.DotProduct(centroids.RawRowView(j), w) + w2
					if d < 0 {
						d = 0
					}
				} else {
					d = 1
					if w2 > 0 {
						d = 1 - vecmath.DotProduct(unit[j], w)/math.Sqrt(w2)
					}
				}
				if d < distances[i] {
					distances[i] = d
					labels[i] = j
					shifts[i] = s
				}
			}
		}
	}

	return labels, shifts, distances, nil
}
