package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// NewThreeSpheresScene creates a small world: a large ground sphere with a
// diffuse, a glass and a metal sphere side by side
func NewThreeSpheresScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		FocusDistance: 3.4,
		DefocusAngle:  10.0,
	}

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialLeft, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}

	b := newSphereBuilder()
	b.add(core.NewVec3(0, -100.5, -1), 100, materialGround)
	b.add(core.NewVec3(0, 0, -1.2), 0.5, materialCenter)
	b.add(core.NewVec3(-1, 0, -1), 0.5, materialLeft)
	b.add(core.NewVec3(1, 0, -1), 0.5, materialRight)
	if b.err != nil {
		return nil, b.err
	}

	return &Scene{
		Name:           ThreeSpheres,
		Shapes:         b.shapes,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}, nil
}

// NewSingleSphereScene creates one diffuse sphere on the optical axis under an open sky
func NewSingleSphereScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		FocusDistance: 1.0,
	}

	b := newSphereBuilder()
	b.add(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	if b.err != nil {
		return nil, b.err
	}

	return &Scene{
		Name:           SingleSphere,
		Shapes:         b.shapes,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}, nil
}
