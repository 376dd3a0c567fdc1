package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-2, -1, 1, -1},
		{9, 0, 3, 3},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v)\nhave %v\nwant %v", tt.in, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSaturatingSub(t *testing.T) {
	if got := SaturatingSub[uint32](5, 9); got != 0 {
		t.Fatalf("SaturatingSub(5, 9)\nhave %d\nwant 0", got)
	}
	if got := SaturatingSub[uint32](9, 5); got != 4 {
		t.Fatalf("SaturatingSub(9, 5)\nhave %d\nwant 4", got)
	}
}

func TestMat4ApproxEqual(t *testing.T) {
	a := mgl32.Translate3D(1, 2, 3)
	b := a
	b[12] += 1e-6
	if !Mat4ApproxEqual(a, b, 1e-5) {
		t.Fatal("matrices within tolerance compared unequal")
	}
	if Mat4ApproxEqual(a, mgl32.Ident4(), 1e-5) {
		t.Fatal("different matrices compared equal")
	}
}
