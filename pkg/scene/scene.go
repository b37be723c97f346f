package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Shapes         *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.Shapes.Len()
}

// NewRaytracer builds the camera, applying any non-zero camera and sampling
// overrides, and returns a raytracer over the scene's shapes
func (s *Scene) NewRaytracer(cameraOverride renderer.CameraConfig, samplingOverride renderer.SamplingConfig, logger core.Logger) (*renderer.Raytracer, error) {
	sampling := s.SamplingConfig
	if samplingOverride.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = samplingOverride.SamplesPerPixel
	}
	if samplingOverride.MaxDepth > 0 {
		sampling.MaxDepth = samplingOverride.MaxDepth
	}

	camera, err := renderer.NewCamera(renderer.MergeCameraConfig(s.CameraConfig, cameraOverride), sampling)
	if err != nil {
		return nil, err
	}
	return renderer.NewRaytracer(s.Shapes, camera, logger), nil
}

// sphereBuilder adds spheres to a list, keeping the first construction error
type sphereBuilder struct {
	shapes *geometry.HittableList
	err    error
}

func newSphereBuilder() *sphereBuilder {
	return &sphereBuilder{shapes: geometry.NewHittableList()}
}

func (b *sphereBuilder) add(center core.Vec3, radius float64, mat material.Material) {
	if b.err != nil {
		return
	}
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		b.err = err
		return
	}
	b.shapes.Add(sphere)
}
