package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/math"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// ModelInstance places a shared model in the world.
type ModelInstance struct {
	Transform mgl32.Mat4
	Model     *metadata.Model
}

// Health is a hit point pool.
type Health struct {
	HP    uint32
	MaxHP uint32
}

func NewHealth(hp uint32) Health {
	return Health{HP: hp, MaxHP: hp}
}

// TakeDmg subtracts amount, saturating at zero.
func (h *Health) TakeDmg(amount uint32) {
	h.HP = math.SaturatingSub(h.HP, amount)
}

// Heal adds amount, capped at MaxHP when MaxHP is set.
func (h *Health) Heal(amount uint32) {
	hp := h.HP + amount
	if hp < h.HP {
		hp = ^uint32(0)
	}
	if h.MaxHP > 0 && hp > h.MaxHP {
		hp = h.MaxHP
	}
	h.HP = hp
}

func (h *Health) IsAlive() bool {
	return h.HP > 0
}

// Physical is a point body. There is no solver; Integrate only advances
// position by velocity.
type Physical struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Mass     float32
}

func (p *Physical) Integrate(dt time.Duration) {
	p.Position = p.Position.Add(p.Velocity.Mul(float32(dt.Seconds())))
}

// ApplyImpulse changes velocity by impulse/mass. Massless bodies ignore it.
func (p *Physical) ApplyImpulse(impulse mgl32.Vec3) {
	if p.Mass <= 0 {
		return
	}
	p.Velocity = p.Velocity.Add(impulse.Mul(1 / p.Mass))
}
