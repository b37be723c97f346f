package output

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// intensity is the displayable range; the upper bound keeps 256*x below 256
var intensity = core.NewInterval(0.0, 0.999)

// LinearToGamma applies gamma-2 correction. Non-positive components map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// ToBytes converts a linear color to 8-bit channel values in [0, 255]
func ToBytes(color core.Vec3) (r, g, b int) {
	return toByte(color.X), toByte(color.Y), toByte(color.Z)
}

func toByte(linear float64) int {
	// NaN fails every comparison in Clamp; treat it as black
	if math.IsNaN(linear) {
		return 0
	}
	return int(256 * intensity.Clamp(LinearToGamma(linear)))
}
