package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
)

// WorldUp is the up axis used for lateral camera movement.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// SaturatingSub returns a-b, or zero when b is larger than a.
func SaturatingSub[T constraints.Unsigned](a, b T) T {
	if b >= a {
		return 0
	}
	return a - b
}

func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

// Mat4ApproxEqual compares two matrices element-wise within eps.
func Mat4ApproxEqual(a, b mgl32.Mat4, eps float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

// Vec3ApproxEqual compares two vectors component-wise within eps.
func Vec3ApproxEqual(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}
