package core

import (
	"errors"
	"math/rand"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

func TestRandomSampler_Deterministic(t *testing.T) {
	s1 := NewSeededSampler(42)
	s2 := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 10; i++ {
		if a, b := s1.Get1D(), s2.Get1D(); a != b {
			t.Fatalf("Samplers with the same seed diverged at %d: %f != %f", i, a, b)
		}
	}
}

func TestRandomVec3_Range(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		v := RandomVec3(sampler, -2, 3)
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < -2 || c >= 3 {
				t.Fatalf("Component %f outside [-2, 3)", c)
			}
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(42)
	const n = 20000
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if !scalar.EqualWithinAbs(v.Length(), 1.0, 1e-12) {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
		xs[i] = v.X
	}

	// Uniform on the sphere: each component has mean 0 and variance 1/3
	if mean := stat.Mean(xs, nil); !scalar.EqualWithinAbs(mean, 0, 0.02) {
		t.Errorf("Expected mean near 0, got %f", mean)
	}
	if variance := stat.Variance(xs, nil); !scalar.EqualWithinAbs(variance, 1.0/3.0, 0.02) {
		t.Errorf("Expected variance near 1/3, got %f", variance)
	}
}

func TestRandomOnHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	normal := NewVec3(0, 0, 1)
	for i := 0; i < 1000; i++ {
		if v := RandomOnHemisphere(normal, sampler); v.Dot(normal) < 0 {
			t.Fatalf("Sample %v is below the hemisphere", v)
		}
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in z=0 plane, got %v", p)
		}
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Disk sample %v outside unit disk", p)
		}
	}
}

func TestRegisteredErrors(t *testing.T) {
	wrapped := errorsmod.Wrapf(ErrInvalidCamera, "width must be positive, got %d", 0)

	if !errors.Is(wrapped, ErrInvalidCamera) {
		t.Error("Wrapped error should match its registered code")
	}
	if errors.Is(wrapped, ErrInvalidConfig) {
		t.Error("Wrapped error should not match a different code")
	}
	if !errorsmod.IsOf(wrapped, ErrInvalidGeometry, ErrInvalidCamera) {
		t.Error("IsOf should find the registered code among targets")
	}
}
