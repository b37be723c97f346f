package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

func TestHittableList_ReturnsClosestHit(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	// Overlapping spheres; the far one is listed first so a first-match search would pick it
	farSphere := mustSphere(t, core.NewVec3(0, 0, -3), 1.5, far)
	nearSphere := mustSphere(t, core.NewVec3(0, 0, -2), 1.0, near)
	world := NewHittableList(farSphere, nearSphere)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := world.Hit(ray, core.Forward(0.001))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected closest t=1, got t=%f", hit.T)
	}
	if hit.Material != near {
		t.Error("Expected the nearer sphere's material")
	}

	// Same result regardless of order
	reversed := NewHittableList(nearSphere, farSphere)
	hit, _ = reversed.Hit(ray, core.Forward(0.001))
	if hit.Material != near {
		t.Error("Closest hit should not depend on list order")
	}
}

// countingShape records the intervals it was queried with
type countingShape struct {
	calls []core.Interval
	t     float64
}

func (c *countingShape) Hit(ray core.Ray, interval core.Interval) (*material.HitRecord, bool) {
	c.calls = append(c.calls, interval)
	if !interval.Contains(c.t) {
		return nil, false
	}
	return &material.HitRecord{T: c.t, Point: ray.At(c.t)}, true
}

func TestHittableList_NarrowsInterval(t *testing.T) {
	first := &countingShape{t: 5}
	second := &countingShape{t: 2}
	third := &countingShape{t: 3}
	world := NewHittableList(first, second)
	world.Add(third)

	if world.Len() != 3 {
		t.Fatalf("Expected 3 shapes, got %d", world.Len())
	}

	hit, isHit := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), core.Forward(0.001))
	if !isHit || hit.T != 2 {
		t.Fatalf("Expected hit at t=2, got %+v (hit=%t)", hit, isHit)
	}
	if got := second.calls[0].Max; got != 5 {
		t.Errorf("Second shape should be searched up to t=5, got %f", got)
	}
	if got := third.calls[0].Max; got != 2 {
		t.Errorf("Third shape should be searched up to t=2, got %f", got)
	}
	if got := third.calls[0].Min; got != 0.001 {
		t.Errorf("Lower bound should be preserved, got %f", got)
	}
}

func TestHittableList_Empty(t *testing.T) {
	world := NewHittableList()
	if _, isHit := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), core.Forward(0.001)); isHit {
		t.Error("Empty list should never report a hit")
	}
}
