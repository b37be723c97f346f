package material

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func mustDielectric(t *testing.T, index float64) *Dielectric {
	t.Helper()
	d, err := NewDielectric(index)
	if err != nil {
		t.Fatalf("NewDielectric(%f): %v", index, err)
	}
	return d
}

func TestDielectricBasicBehavior(t *testing.T) {
	glass := mustDielectric(t, 1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasRefraction := false
	for seed := int64(0); seed < 100; seed++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
		result, scattered := glass.Scatter(ray, hit, sampler)

		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1.0, 1.0, 1.0) {
			t.Errorf("Expected white attenuation, got %v", result.Attenuation)
		}
		if result.Scattered.Origin != hit.Point {
			t.Errorf("Expected origin %v, got %v", hit.Point, result.Scattered.Origin)
		}
		if result.Scattered.Direction.Y < 0 {
			hasRefraction = true
		}
	}

	// At 45 degrees air->glass reflectance is only ~5%
	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := mustDielectric(t, 1.5)

	// A shallow ray leaving the glass
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false, // Exiting the material
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(int64(i))))
		result, scattered := glass.Scatter(ray, hit, sampler)

		if !scattered {
			t.Error("Dielectric should always scatter")
		}
		expected := core.Reflect(rayDirection, hit.Normal)
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
			t.Errorf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
		}
	}
}

func TestDielectricIndexMatchedPassesStraightThrough(t *testing.T) {
	matched := mustDielectric(t, 1.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	directions := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(3, -0.2, 1),
		core.NewVec3(-5, -0.01, 2),
	}

	for _, frontFace := range []bool{true, false} {
		for _, dir := range directions {
			hit := HitRecord{
				Point:     core.NewVec3(0, 0, 0),
				Normal:    core.NewVec3(0, 1, 0),
				FrontFace: frontFace,
				Material:  matched,
			}
			ray := core.NewRay(core.NewVec3(0, 1, 0), dir)

			for i := 0; i < 50; i++ {
				result, _ := matched.Scatter(ray, hit, sampler)
				expected := dir.Normalize()
				if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
					t.Fatalf("Direction %v (front=%t): expected %v, got %v",
						dir, frontFace, expected, result.Scattered.Direction)
				}
			}
		}
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.0 / 1.5, 0.04},
		{"grazing incidence", 0.0, 1.0 / 1.5, 1.0},
		{"index matched", 0.3, 1.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ratio); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestNewDielectric_RejectsInvalidIndex(t *testing.T) {
	for _, index := range []float64{0, -1.5, math.NaN(), math.Inf(1)} {
		if _, err := NewDielectric(index); !errors.Is(err, core.ErrInvalidMaterial) {
			t.Errorf("NewDielectric(%f): expected ErrInvalidMaterial, got %v", index, err)
		}
	}
}
