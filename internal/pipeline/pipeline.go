// Package pipeline wires the sampling, binning, reduction, codec and render
// stages into the file-to-file operations the commands run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"raster-points/internal/binning"
	"raster-points/internal/config"
	"raster-points/internal/observation"
	"raster-points/internal/palette"
	"raster-points/internal/pointfile"
	"raster-points/internal/points"
	"raster-points/internal/raster"
	"raster-points/internal/reduce"
	"raster-points/internal/render"
	"raster-points/internal/sampler"
	"raster-points/pkg/colorutil"

	"gonum.org/v1/gonum/stat"
)

// Job is one raster to convert into a point file.
type Job struct {
	Input  string
	Output string
}

// Result summarizes one sampling or observation run.
type Result struct {
	Input   string
	Output  string
	Width   int // Raster size; zero for observation runs
	Height  int
	Visited int // Pixels or stations examined
	Sampled int // Points classified before reduction
	Kept    int // Points written

	// Histogram counts written points per class.
	Histogram []int
	// Mean and StdDev describe the class populations in Histogram.
	Mean    float64
	StdDev  float64
	Elapsed time.Duration
}

// Pipeline runs the configured stages. It is safe for concurrent use.
type Pipeline struct {
	cfg     config.Config
	seed    uint64
	log     *log.Logger
	palette *palette.Palette
	bins    binning.Table
	params  sampler.Params
	opts    render.Options
	colors  []color.RGBA
}

// New validates cfg and prepares its stages. A nil logger discards output.
// A zero cfg.Seed draws a fresh seed, logged so the run can be repeated.
func New(cfg config.Config, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	pal, err := cfg.PaletteSet()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	colors, err := cfg.ClassColors()
	if err != nil {
		return nil, err
	}
	bins, err := cfg.BinTable()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
		logger.Printf("Pipeline: seed %d", seed)
	}

	return &Pipeline{
		cfg:     cfg,
		seed:    seed,
		log:     logger,
		palette: pal,
		bins:    bins,
		params:  cfg.SamplerParams(),
		opts:    opts,
		colors:  colors,
	}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config { return p.cfg }

// Bins returns the value bins used for observations.
func (p *Pipeline) Bins() binning.Table { return p.bins }

// Palette returns the raster classification palette.
func (p *Pipeline) Palette() *palette.Palette { return p.palette }

// Seed returns the seed in use.
func (p *Pipeline) Seed() uint64 { return p.seed }

// source returns the random stream for job index i. Each job gets its own
// stream so batch results do not depend on scheduling.
func (p *Pipeline) source(i int) rand.Source {
	return rand.NewPCG(p.seed, uint64(i))
}

// SampleRaster loads a raster, samples it on the configured grid, reduces the
// result to the target count and writes it as a point file.
func (p *Pipeline) SampleRaster(ctx context.Context, job Job) (*Result, error) {
	return p.sampleJob(ctx, job, 0)
}

func (p *Pipeline) sampleJob(ctx context.Context, job Job, index int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	src, err := raster.Load(job.Input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := p.source(index)
	sampled := sampler.Sample(src.Image, p.palette, p.params, rng)
	kept := p.reduce(sampled.Points, rng)

	if err := pointfile.WriteFile(job.Output, kept); err != nil {
		return nil, err
	}

	res := p.result(job, kept, start)
	res.Width = src.Width()
	res.Height = src.Height()
	res.Visited = sampled.Visited
	res.Sampled = len(sampled.Points)
	p.log.Printf("Sampler: %s (%s %dx%d): visited %d, classified %d, kept %d in %.1fms",
		job.Input, src.Format, res.Width, res.Height, res.Visited, res.Sampled, res.Kept,
		float64(res.Elapsed.Microseconds())/1000)
	return res, nil
}

// SampleBatch runs SampleRaster over jobs on up to runtime.NumCPU() workers.
// Results are returned in job order; a failed job leaves a nil entry and its
// error is joined into the returned error.
func (p *Pipeline) SampleBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}
	start := time.Now()

	var wg sync.WaitGroup
	jobChan := make(chan int, len(jobs))
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				res, err := p.sampleJob(ctx, jobs[i], i)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", jobs[i].Input, err)
					continue
				}
				results[i] = res
			}
		}()
	}
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	err := errors.Join(errs...)
	failed := 0
	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	p.log.Printf("Batch: %d jobs, %d failed (%d workers, %.1fms)",
		len(jobs), failed, numWorkers, float64(time.Since(start).Microseconds())/1000)
	return results, err
}

// Observations fetches q from feed, bins each value with the configured
// table and writes the binned stations to out.
func (p *Pipeline) Observations(ctx context.Context, feed observation.Feed, q observation.Query, out string) (*Result, error) {
	start := time.Now()
	obs, err := feed.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	binned := observation.ToPoints(obs, p.bins)
	kept := p.reduce(binned, p.source(0))
	if err := pointfile.WriteFile(out, kept); err != nil {
		return nil, err
	}

	res := p.result(Job{Input: q.Element, Output: out}, kept, start)
	res.Visited = len(obs)
	res.Sampled = len(binned)
	p.log.Printf("Observations: %s %s %02d:00: %d stations, %d binned, kept %d",
		q.Element, q.Date.Format(observation.DateLayout), q.Hour, res.Visited, res.Sampled, res.Kept)
	return res, nil
}

func (p *Pipeline) reduce(pts []points.Record, src rand.Source) []points.Record {
	if p.cfg.Target <= 0 || p.cfg.Target >= len(pts) {
		return pts
	}
	return reduce.Reduce(pts, p.cfg.Target, src)
}

func (p *Pipeline) result(job Job, kept []points.Record, start time.Time) *Result {
	hist := points.Histogram(kept, 0)
	mean, std := classStats(hist)
	return &Result{
		Input:     job.Input,
		Output:    job.Output,
		Kept:      len(kept),
		Histogram: hist,
		Mean:      mean,
		StdDev:    std,
		Elapsed:   time.Since(start),
	}
}

// classStats returns the mean and sample standard deviation of the class
// populations. Fewer than two classes give a zero deviation.
func classStats(hist []int) (mean, std float64) {
	if len(hist) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(hist))
	for i, n := range hist {
		xs[i] = float64(n)
	}
	mean, std = stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// RenderPoints paints pts with the configured options and class colors.
func (p *Pipeline) RenderPoints(pts []points.Record) (*render.Output, error) {
	r, err := render.New(p.opts, p.source(0))
	if err != nil {
		return nil, err
	}
	out, err := r.Render(pts, p.colors)
	if err != nil {
		return nil, err
	}

	if out.Empty {
		p.log.Printf("Render: no points, blank %dx%d canvas", p.opts.Width, p.opts.Height)
	} else {
		p.log.Printf("Render: %d points, %d painted, bounds %v", len(pts), out.Painted, out.Bounds)
	}
	for i, c := range out.Colors {
		p.log.Printf("Render: class %d %s", i, colorutil.Hex(c))
	}
	return out, nil
}

// RenderFile reads a point file, renders it and writes the canvas as PNG.
// With a configured thumbnail size a scaled copy is written next to it.
func (p *Pipeline) RenderFile(in, out string) (*render.Output, error) {
	pts, err := pointfile.ReadFile(in)
	if err != nil {
		return nil, err
	}
	res, err := p.RenderPoints(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if err := raster.WritePNG(out, res.Image); err != nil {
		return nil, err
	}

	if n := p.cfg.Render.Thumbnail; n > 0 {
		thumb := render.Thumbnail(res.Image, n, n)
		if err := raster.WritePNG(ThumbnailPath(out), thumb); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// OutputPath returns the point file path for input. An empty dir keeps the
// input's directory.
func OutputPath(input, dir string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + pointfile.Extension
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

// ThumbnailPath returns the thumbnail path written alongside a render.
func ThumbnailPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_thumb" + ext
}
