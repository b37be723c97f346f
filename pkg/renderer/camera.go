package renderer

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// CameraConfig contains the user-facing camera parameters
type CameraConfig struct {
	Center        core.Vec3 // Eye position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	FocusDistance float64   // Distance from the eye to the plane of perfect focus
	DefocusAngle  float64   // Aperture cone angle in degrees, <= 0 disables depth of field
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the fixed defaults: 100 samples, 50 bounces
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Camera generates rays for rendering. All fields are derived once in NewCamera.
type Camera struct {
	width, height int
	center        core.Vec3
	pixel00       core.Vec3 // World location of pixel (0, 0)
	pixelDeltaU   core.Vec3 // Offset to the pixel to the right
	pixelDeltaV   core.Vec3 // Offset to the pixel below
	u, v, w       core.Vec3 // Camera basis: right, up, back
	defocusAngle  float64
	defocusDiskU  core.Vec3
	defocusDiskV  core.Vec3
	sampling      SamplingConfig
}

// NewCamera validates the configuration and derives the viewport
func NewCamera(config CameraConfig, sampling SamplingConfig) (*Camera, error) {
	if err := validateCameraConfig(config, sampling); err != nil {
		return nil, err
	}

	height := max(1, int(float64(config.Width)/config.AspectRatio))

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Image rows run top to bottom, so the vertical edge points down
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Divide(2)).
		Subtract(viewportV.Divide(2))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(config.DefocusAngle*math.Pi/180.0/2)

	return &Camera{
		width:        config.Width,
		height:       height,
		center:       config.Center,
		pixel00:      pixel00,
		pixelDeltaU:  pixelDeltaU,
		pixelDeltaV:  pixelDeltaV,
		u:            u,
		v:            v,
		w:            w,
		defocusAngle: config.DefocusAngle,
		defocusDiskU: u.Multiply(defocusRadius),
		defocusDiskV: v.Multiply(defocusRadius),
		sampling:     sampling,
	}, nil
}

func validateCameraConfig(config CameraConfig, sampling SamplingConfig) error {
	switch {
	case config.Width <= 0:
		return errorsmod.Wrapf(core.ErrInvalidCamera, "image width must be positive, got %d", config.Width)
	case !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0):
		return errorsmod.Wrapf(core.ErrInvalidCamera, "aspect ratio must be positive, got %g", config.AspectRatio)
	case !(config.VFov > 0 && config.VFov < 180):
		return errorsmod.Wrapf(core.ErrInvalidCamera, "vertical field of view must be in (0, 180) degrees, got %g", config.VFov)
	case !(config.FocusDistance > 0) || math.IsInf(config.FocusDistance, 0):
		return errorsmod.Wrapf(core.ErrInvalidCamera, "focus distance must be positive, got %g", config.FocusDistance)
	case config.DefocusAngle >= 180 || math.IsNaN(config.DefocusAngle):
		return errorsmod.Wrapf(core.ErrInvalidCamera, "defocus angle must be below 180 degrees, got %g", config.DefocusAngle)
	case sampling.SamplesPerPixel <= 0:
		return errorsmod.Wrapf(core.ErrInvalidCamera, "samples per pixel must be positive, got %d", sampling.SamplesPerPixel)
	case sampling.MaxDepth <= 0:
		return errorsmod.Wrapf(core.ErrInvalidCamera, "max depth must be positive, got %d", sampling.MaxDepth)
	}

	view := config.Center.Subtract(config.LookAt)
	if view.NearZero() {
		return errorsmod.Wrapf(core.ErrInvalidCamera, "camera center %v coincides with look-at point", config.Center)
	}
	if config.Up.Cross(view).NearZero() {
		return errorsmod.Wrapf(core.ErrInvalidCamera, "up vector %v is parallel to the view direction", config.Up)
	}
	return nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Sampling returns the sampling configuration the camera was built with
func (c *Camera) Sampling() SamplingConfig { return c.sampling }

// Center returns the eye position
func (c *Camera) Center() core.Vec3 { return c.center }

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// PixelCenter returns the world-space location of the center of pixel (i, j)
func (c *Camera) PixelCenter(i, j int) core.Vec3 {
	return c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
}

// GetRay generates a ray for pixel (i, j), jittered within the pixel and
// starting on the defocus disk when depth of field is enabled
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y - 0.5))

	origin := c.center
	if c.defocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// defocusDiskSample returns a random point on the camera's aperture disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	return result
}
