package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/math"
)

type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	DirForward
	DirBackward
)

// Perspective holds the projection parameters of a camera.
type Perspective struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// Projection builds the perspective matrix.
func (p Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

/**
 * @brief Represents a camera facet. Position and rotation must be changed
 * through the mutators so the view matrix is recalculated.
 */
type Camera struct {
	Position mgl32.Vec3
	/** @brief Euler rotation in radians: X pitch, Y yaw, Z roll. */
	Rotation    mgl32.Vec3
	Direction   Direction
	MoveSpeed   float32
	RotateSpeed float32
	Perspective Perspective
	view        mgl32.Mat4
}

/** @brief Pitch limit, 89 degrees, to avoid gimbal lock. */
const pitchLimit float32 = 1.55334306

func NewCamera() Camera {
	c := Camera{
		MoveSpeed:   1,
		RotateSpeed: 1,
		Perspective: Perspective{
			FovY:   math.K_HALF_PI,
			Aspect: 16.0 / 9.0,
			Near:   0.1,
			Far:    1000,
		},
	}
	c.refresh()
	return c
}

func (c *Camera) refresh() {
	c.view = mgl32.HomogRotate3DX(c.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(c.Rotation.Z())).
		Mul4(mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()))
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.Perspective.Projection()
}

func (c *Camera) SetPerspective(fovY, aspect, near, far float32) {
	c.Perspective = Perspective{FovY: fovY, Aspect: aspect, Near: near, Far: far}
	c.refresh()
}

func (c *Camera) UpdateAspect(aspect float32) {
	c.Perspective.Aspect = aspect
	c.refresh()
}

func (c *Camera) SetPos(pos mgl32.Vec3) {
	c.Position = pos
	c.refresh()
}

func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Position = c.Position.Add(delta)
	c.refresh()
}

// Rotate adds delta (pitch, yaw, roll) to the rotation. Pitch is clamped.
func (c *Camera) Rotate(delta mgl32.Vec3) {
	c.SetRotation(c.Rotation.Add(delta))
}

func (c *Camera) SetRotation(rotation mgl32.Vec3) {
	rotation[0] = math.Clamp(rotation[0], -pitchLimit, pitchLimit)
	c.Rotation = rotation
	c.refresh()
}

// Forward derives the facing vector from pitch and yaw.
func (c *Camera) Forward() mgl32.Vec3 {
	pitch, yaw := c.Rotation.X(), c.Rotation.Y()
	return mgl32.Vec3{
		math.Cos(pitch) * math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch) * math.Cos(yaw),
	}
}

// Lateral is the right-hand vector: forward crossed with world up.
func (c *Camera) Lateral() mgl32.Vec3 {
	lateral := c.Forward().Cross(math.WorldUp)
	if lateral.Len() == 0 {
		return mgl32.Vec3{}
	}
	return lateral.Normalize()
}

func (c *Camera) MoveInDir(dir Direction, amount float32) {
	var delta mgl32.Vec3
	switch dir {
	case DirForward:
		delta = c.Forward().Mul(amount)
	case DirBackward:
		delta = c.Forward().Mul(-amount)
	case DirRight:
		delta = c.Lateral().Mul(amount)
	case DirLeft:
		delta = c.Lateral().Mul(-amount)
	case DirUp:
		delta = math.WorldUp.Mul(amount)
	case DirDown:
		delta = math.WorldUp.Mul(-amount)
	default:
		return
	}
	c.Translate(delta)
}

// Step moves the camera along its current Direction at MoveSpeed.
func (c *Camera) Step(dt time.Duration) {
	if c.Direction == DirNone {
		return
	}
	c.MoveInDir(c.Direction, c.MoveSpeed*float32(dt.Seconds()))
}
