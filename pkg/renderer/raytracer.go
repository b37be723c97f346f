package renderer

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// shadowAcneEpsilon is the minimum hit distance; it keeps scattered rays from
// re-hitting the surface they start on
const shadowAcneEpsilon = 0.001

// PixelWriter receives the rendered image in row-major order, top row first
type PixelWriter interface {
	WriteHeader(width, height int) error
	WritePixel(color core.Vec3) error
}

// RenderOptions controls how the image is scheduled
type RenderOptions struct {
	Seed    int64 // Base seed; each row derives its own generator from it
	Workers int   // 0 renders rows sequentially, > 0 renders rows on that many goroutines
}

// Raytracer handles the rendering process
type Raytracer struct {
	world  geometry.Shape
	camera *Camera
	logger core.Logger
}

// NewRaytracer creates a new raytracer for the given world and camera
func NewRaytracer(world geometry.Shape, camera *Camera, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger()
	}
	return &Raytracer{
		world:  world,
		camera: camera,
		logger: logger,
	}
}

// Camera returns the camera the raytracer renders through
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// RayColor computes the radiance carried back along r, following at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.world.Hit(r, core.Forward(shadowAcneEpsilon))
	if !isHit {
		return SkyGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// SkyGradient returns the background color: white at the horizon blending
// to light blue overhead, driven by the normalized ray's y component
func SkyGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	white := core.NewVec3(1.0, 1.0, 1.0)
	blue := core.NewVec3(0.5, 0.7, 1.0)
	return white.Multiply(1.0 - a).Add(blue.Multiply(a))
}

// RenderPixel averages SamplesPerPixel jittered samples for pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	sampling := rt.camera.Sampling()
	var stats PixelStats
	for s := 0; s < sampling.SamplesPerPixel; s++ {
		ray := rt.camera.GetRay(i, j, sampler)
		stats.AddSample(rt.RayColor(ray, sampling.MaxDepth, sampler))
	}
	return stats.GetColor()
}

// RenderRow renders every pixel of row j, left to right
func (rt *Raytracer) RenderRow(j int, sampler core.Sampler) []core.Vec3 {
	row := make([]core.Vec3, rt.camera.Width())
	for i := range row {
		row[i] = rt.RenderPixel(i, j, sampler)
	}
	return row
}

// rowSampler derives the generator for one row so that the image depends only
// on the base seed, never on scheduling
func rowSampler(seed int64, row int) core.Sampler {
	return core.NewSeededSampler(seed*1_000_003 + int64(row))
}

// Render renders the full image and streams it to out
func (rt *Raytracer) Render(ctx context.Context, out PixelWriter, opts RenderOptions) (RenderStats, error) {
	start := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()
	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: rt.camera.Sampling().SamplesPerPixel,
	}

	if err := out.WriteHeader(width, height); err != nil {
		return stats, errorsmod.Wrap(core.ErrOutput, err.Error())
	}

	luminance := newLuminanceAccumulator(width * height)
	emit := func(j int, row []core.Vec3) error {
		rt.logger.Printf("%d lines remaining", height-j)
		for _, c := range row {
			if err := out.WritePixel(c); err != nil {
				return errorsmod.Wrapf(core.ErrOutput, "row %d: %v", j, err)
			}
		}
		luminance.addRow(row)
		stats.TotalPixels += len(row)
		stats.TotalSamples += len(row) * stats.SamplesPerPixel
		return nil
	}

	var err error
	if opts.Workers > 0 {
		err = rt.renderParallel(ctx, opts, emit)
	} else {
		err = rt.renderSequential(ctx, opts, emit)
	}

	luminance.finalize(&stats)
	stats.Duration = time.Since(start)
	return stats, err
}

func (rt *Raytracer) renderSequential(ctx context.Context, opts RenderOptions, emit func(int, []core.Vec3) error) error {
	for j := 0; j < rt.camera.Height(); j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(j, rt.RenderRow(j, rowSampler(opts.Seed, j))); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Raytracer) renderParallel(ctx context.Context, opts RenderOptions, emit func(int, []core.Vec3) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	height := rt.camera.Height()
	pool := NewWorkerPool(ctx, rt, opts.Seed, opts.Workers, height)
	pool.Start()
	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j})
	}
	pool.Finish()

	// Rows complete out of order; hold them until their turn
	pending := make(map[int][]core.Vec3)
	next := 0
	for result := range pool.Results() {
		pending[result.Row] = result.Pixels
		for {
			row, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := emit(next, row); err != nil {
				return err
			}
			next++
		}
	}

	if err := pool.Err(); err != nil {
		return err
	}
	if next != height {
		return errorsmod.Wrapf(core.ErrOutput, "render stopped after %d of %d rows", next, height)
	}
	return nil
}
