package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Grid and feature layout of the random spheres scene
const (
	gridExtent        = 11  // Small spheres are placed for a, b in [-gridExtent, gridExtent)
	smallSphereRadius = 0.2 // Radius of every grid sphere
	gridJitter        = 0.9 // Max offset of a grid sphere from its cell corner
	featureClearance  = 0.9 // Grid spheres closer than this to the clearance point are skipped
)

// NewRandomSpheresScene creates the classic final scene: a large ground sphere,
// a 22x22 grid of small random spheres and three large feature spheres.
// All randomness is drawn from sampler so a seed reproduces the layout.
func NewRandomSpheresScene(sampler core.Sampler) (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         1200,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		FocusDistance: 10.0,
		DefocusAngle:  0.6,
	}

	glass, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}

	b := newSphereBuilder()
	b.add(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	clearancePoint := core.NewVec3(4, smallSphereRadius, 0)
	for a := -gridExtent; a < gridExtent; a++ {
		for c := -gridExtent; c < gridExtent; c++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+gridJitter*sampler.Get1D(),
				smallSphereRadius,
				float64(c)+gridJitter*sampler.Get1D(),
			)

			if center.Subtract(clearancePoint).Length() <= featureClearance {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				mat = material.NewMetal(albedo, fuzz)
			default:
				mat = glass
			}
			b.add(center, smallSphereRadius, mat)
		}
	}

	b.add(core.NewVec3(0, 1, 0), 1.0, glass)
	b.add(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	b.add(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))
	if b.err != nil {
		return nil, b.err
	}

	return &Scene{
		Name:           RandomSpheres,
		Shapes:         b.shapes,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}, nil
}
