// Command sikmeans demonstrates shift-invariant k-means clustering on
// synthetic Morlet-wavelet signals.
//
// Usage:
//
//	sikmeans [flags]
//
// It generates a labeled dataset of noisy, randomly shifted Morlet
// wavelets, clusters it, writes results into <root>/<name>/, and renders
// an image of the centroids that occur at least -min-count times.
//
// Examples:
//
//	sikmeans -name demo -root ./results
//	sikmeans -k 5 -metric cosine -seed 42
//	sikmeans -samples 500 -centroid-len 192 -min-count 10
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-neuro/dsp/core"
	"github.com/cwbudde/algo-neuro/dsp/signal"
	"github.com/cwbudde/algo-neuro/dsp/spectrum"
	"github.com/cwbudde/algo-neuro/sikmeans"
	"github.com/cwbudde/algo-neuro/stats/frequency"
	stattime "github.com/cwbudde/algo-neuro/stats/time"
)

type options struct {
	name       string
	root       string
	k          int
	centroid   int
	samples    int
	length     int
	sampleRate float64
	seed       int64
	metric     string
	minCount   int
	maxIter    int
	noiseSigma float64
}

func main() {
	var opts options
	flag.StringVar(&opts.name, "name", "sikmeans-demo", "experiment name (results subdirectory)")
	flag.StringVar(&opts.root, "root", "results", "root directory for experiment output")
	flag.IntVar(&opts.k, "k", 3, "number of clusters")
	flag.IntVar(&opts.centroid, "centroid-len", 256, "centroid window length in samples")
	flag.IntVar(&opts.samples, "samples", 200, "number of synthetic signals")
	flag.IntVar(&opts.length, "length", 512, "signal length in samples")
	flag.Float64Var(&opts.sampleRate, "sample-rate", 256, "sample rate in Hz")
	flag.Int64Var(&opts.seed, "seed", 13, "random seed")
	flag.StringVar(&opts.metric, "metric", "euclidean", "assignment metric: euclidean or cosine")
	flag.IntVar(&opts.minCount, "min-count", 5, "minimum occurrences for a centroid to be rendered")
	flag.IntVar(&opts.maxIter, "iters", 100, "maximum Lloyd iterations")
	flag.Float64Var(&opts.noiseSigma, "noise", 0.1, "gaussian noise sigma of the synthetic signals")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "sikmeans: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	metric, err := sikmeans.ParseMetric(opts.metric)
	if err != nil {
		return err
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(opts.sampleRate)},
		signal.WithSeed(opts.seed),
	)

	dsCfg := signal.DefaultDatasetConfig()
	dsCfg.Samples = opts.samples
	dsCfg.Length = opts.length
	dsCfg.WaveletLength = opts.centroid
	dsCfg.NoiseSigma = opts.noiseSigma

	ds, err := gen.MorletDataset(dsCfg)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}

	X := mat.NewDense(len(ds.Data), opts.length, nil)
	for i, row := range ds.Data {
		X.SetRow(i, row)
	}

	cfg := sikmeans.DefaultConfig(opts.k, opts.centroid)
	cfg.Metric = metric
	cfg.MaxIter = opts.maxIter
	cfg.Seed = opts.seed

	res, err := sikmeans.Cluster(X, cfg)
	if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}

	outDir := filepath.Join(opts.root, opts.name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	if err := writeCentroidsCSV(filepath.Join(outDir, "centroids.csv"), res); err != nil {
		return err
	}
	if err := writeAssignmentsCSV(filepath.Join(outDir, "assignments.csv"), res); err != nil {
		return err
	}
	if err := writeSummaryJSON(filepath.Join(outDir, "summary.json"), opts, res); err != nil {
		return err
	}
	if err := renderCentroids(filepath.Join(outDir, "centroids.png"), res, opts.minCount); err != nil {
		return err
	}

	printSummary(os.Stdout, opts, res)
	fmt.Printf("\nresults written to %s\n", outDir)
	return nil
}

func writeCentroidsCSV(path string, res *sikmeans.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_, clen := res.Centroids.Dims()
	header := make([]string, clen+2)
	header[0] = "centroid"
	header[1] = "count"
	for c := 0; c < clen; c++ {
		header[c+2] = "s" + strconv.Itoa(c)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for j := 0; j < len(res.Counts); j++ {
		rec := make([]string, clen+2)
		rec[0] = strconv.Itoa(j)
		rec[1] = strconv.Itoa(res.Counts[j])
		for c := 0; c < clen; c++ {
			rec[c+2] = strconv.FormatFloat(res.Centroids.At(j, c), 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeAssignmentsCSV(path string, res *sikmeans.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"sample", "label", "shift", "distance"}); err != nil {
		return err
	}
	for i := range res.Labels {
		rec := []string{
			strconv.Itoa(i),
			strconv.Itoa(res.Labels[i]),
			strconv.Itoa(res.Shifts[i]),
			strconv.FormatFloat(res.Distances[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

type summary struct {
	Name       string  `json:"name"`
	K          int     `json:"k"`
	Metric     string  `json:"metric"`
	Samples    int     `json:"samples"`
	SampleRate float64 `json:"sample_rate"`
	Seed       int64   `json:"seed"`
	Inertia    float64 `json:"inertia"`
	Iterations int     `json:"iterations"`
	Counts     []int   `json:"counts"`
}

func writeSummaryJSON(path string, opts options, res *sikmeans.Result) error {
	s := summary{
		Name:       opts.name,
		K:          opts.k,
		Metric:     opts.metric,
		Samples:    opts.samples,
		SampleRate: opts.sampleRate,
		Seed:       opts.seed,
		Inertia:    res.Inertia,
		Iterations: res.Iterations,
		Counts:     res.Counts,
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// centroidSpectrum returns the one-sided magnitude spectrum of a centroid.
func centroidSpectrum(row []float64) ([]float64, error) {
	fftSize := 1
	for fftSize < len(row) {
		fftSize <<= 1
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	in := make([]complex128, fftSize)
	for i, v := range row {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}
	return spectrum.Magnitude(out[:fftSize/2+1]), nil
}

func printSummary(w *os.File, opts options, res *sikmeans.Result) {
	fmt.Fprintf(w, "experiment %q: %d signals, k=%d, metric=%s\n", opts.name, opts.samples, opts.k, opts.metric)
	fmt.Fprintf(w, "inertia %.4f after %d iterations\n\n", res.Inertia, res.Iterations)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "centroid\tcount\trms\tpeak\tcentroid Hz\tspread Hz")
	for j := 0; j < len(res.Counts); j++ {
		row := mat.Row(nil, j, res.Centroids)
		ts := stattime.Calculate(row)

		centHz, spreadHz := math.NaN(), math.NaN()
		if mag, err := centroidSpectrum(row); err == nil {
			fs := frequency.Calculate(mag, opts.sampleRate)
			centHz, spreadHz = fs.Centroid, fs.Spread
		}

		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.4f\t%.1f\t%.1f\n",
			j, res.Counts[j], ts.RMS, ts.Peak, centHz, spreadHz)
	}
	tw.Flush()
}

// renderCentroids draws each centroid with at least minCount members as a
// stacked line plot. The standard image packages are deliberately used
// here; the output is a quick diagnostic, not publication graphics.
func renderCentroids(path string, res *sikmeans.Result, minCount int) error {
	kept := make([]int, 0, len(res.Counts))
	for j, c := range res.Counts {
		if c >= minCount {
			kept = append(kept, j)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	const (
		panelW   = 640
		panelH   = 120
		padding  = 10
		axisGray = 200
	)

	img := image.NewRGBA(image.Rect(0, 0, panelW, panelH*len(kept)))
	bg := color.RGBA{255, 255, 255, 255}
	axis := color.RGBA{axisGray, axisGray, axisGray, 255}
	line := color.RGBA{20, 60, 160, 255}

	for x := 0; x < panelW; x++ {
		for y := 0; y < panelH*len(kept); y++ {
			img.Set(x, y, bg)
		}
	}

	_, clen := res.Centroids.Dims()
	for pi, j := range kept {
		top := pi * panelH
		mid := top + panelH/2
		for x := 0; x < panelW; x++ {
			img.Set(x, mid, axis)
		}

		row := res.Centroids.RawRowView(j)
		maxAbs := 0.0
		for _, v := range row {
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}

		scaleY := float64(panelH/2 - padding)
		prevY := mid
		for x := 0; x < panelW; x++ {
			idx := x * (clen - 1) / (panelW - 1)
			v := core.Clamp(row[idx]/maxAbs, -1, 1)
			y := mid - int(v*scaleY)
			drawVLine(img, x, prevY, y, line)
			prevY = y
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// drawVLine connects consecutive plot columns with a vertical segment.
func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		img.Set(x, y, c)
	}
}
