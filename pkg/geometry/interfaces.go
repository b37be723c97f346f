package geometry

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection whose t lies in the half-open interval.
type Shape interface {
	Hit(ray core.Ray, interval core.Interval) (*material.HitRecord, bool)
}
