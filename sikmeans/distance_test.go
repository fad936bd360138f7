package sikmeans

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-neuro/internal/testutil"
)

func naiveWindowNorm(row []float64, s, clen int) float64 {
	sum := 0.0
	for _, v := range row[s : s+clen] {
		sum += v * v
	}
	return sum
}

func TestWindowedRowNormsMatchesNaive(t *testing.T) {
	rows := testutil.DeterministicMatrix(3, 4, 16, 1)
	X := mat.NewDense(4, 16, nil)
	for i, row := range rows {
		X.SetRow(i, row)
	}

	clen := 5
	norms := WindowedRowNorms(X, clen)

	nShifts, nSamples := norms.Dims()
	require.Equal(t, 16-clen+1, nShifts)
	require.Equal(t, 4, nSamples)

	for s := 0; s < nShifts; s++ {
		for i := 0; i < nSamples; i++ {
			require.InDelta(t, naiveWindowNorm(rows[i], s, clen), norms.At(s, i), 1e-9,
				"shift %d sample %d", s, i)
		}
	}
}

func TestWindowedRowNormsFullLengthWindow(t *testing.T) {
	X := mat.NewDense(1, 3, []float64{1, 2, 2})
	norms := WindowedRowNorms(X, 3)

	nShifts, _ := norms.Dims()
	require.Equal(t, 1, nShifts)
	require.InDelta(t, 9.0, norms.At(0, 0), 1e-12)
}

func TestDistancesSmallCase(t *testing.T) {
	// One sample [0 1 2], one centroid [1 2], two shifts.
	X := mat.NewDense(1, 3, []float64{0, 1, 2})
	centroids := mat.NewDense(1, 2, []float64{1, 2})

	d := Distances(centroids, X, nil)
	require.Len(t, d, 2)

	// Shift 0 window [0 1]: (1-0)^2 + (2-1)^2 = 2.
	require.InDelta(t, 2.0, d[0][0][0], 1e-12)
	// Shift 1 window [1 2]: exact match.
	require.InDelta(t, 0.0, d[1][0][0], 1e-12)
}

func TestAssignRecoversShift(t *testing.T) {
	// Samples contain the pattern [1 2 3] at different offsets.
	X := mat.NewDense(2, 6, []float64{
		1, 2, 3, 0, 0, 0,
		0, 0, 1, 2, 3, 0,
	})
	centroids := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		-5, -5, -5,
	})

	labels, shifts, distances, err := Assign(X, centroids, Euclidean, nil)
	require.NoError(t, err)

	require.Equal(t, []int{0, 0}, labels)
	require.Equal(t, []int{0, 2}, shifts)
	require.InDelta(t, 0.0, distances[0], 1e-12)
	require.InDelta(t, 0.0, distances[1], 1e-12)
}

func TestAssignCosineScaleInvariance(t *testing.T) {
	X := mat.NewDense(2, 4, []float64{
		1, 2, 0, 0,
		10, 20, 0, 0, // same direction, ten times larger
	})
	centroids := mat.NewDense(1, 2, []float64{1, 2})

	labels, shifts, distances, err := Assign(X, centroids, Cosine, nil)
	require.NoError(t, err)

	require.Equal(t, []int{0, 0}, labels)
	require.Equal(t, shifts[0], shifts[1])
	require.InDelta(t, distances[0], distances[1], 1e-12, "cosine distance ignores scale")
	require.InDelta(t, 0.0, distances[0], 1e-12)
}

func TestAssignCosineZeroWindow(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{0, 0})
	centroids := mat.NewDense(1, 2, []float64{1, 0})

	_, _, distances, err := Assign(X, centroids, Cosine, nil)
	require.NoError(t, err)
	require.InDelta(t, 1.0, distances[0], 1e-12, "zero windows get maximal distance")
}

func TestAssignUnknownMetric(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{1, 2})
	centroids := mat.NewDense(1, 2, []float64{1, 2})

	_, _, _, err := Assign(X, centroids, Metric(42), nil)
	require.ErrorIs(t, err, ErrUnknownMetric)
}

func TestAssignPrecomputedNormsMatch(t *testing.T) {
	rows := testutil.DeterministicMatrix(7, 3, 12, 1)
	X := mat.NewDense(3, 12, nil)
	for i, row := range rows {
		X.SetRow(i, row)
	}
	centroids := mat.NewDense(2, 4, nil)
	centroids.SetRow(0, rows[0][:4])
	centroids.SetRow(1, rows[1][3:7])

	norms := WindowedRowNorms(X, 4)

	l1, s1, d1, err := Assign(X, centroids, Euclidean, norms)
	require.NoError(t, err)
	l2, s2, d2, err := Assign(X, centroids, Euclidean, nil)
	require.NoError(t, err)

	require.Equal(t, l1, l2)
	require.Equal(t, s1, s2)
	for i := range d1 {
		require.InDelta(t, d1[i], d2[i], 1e-12)
	}
	require.False(t, math.IsInf(d1[0], 1))
}
