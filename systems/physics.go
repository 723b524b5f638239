package systems

import "github.com/pthm-cable/lipidose/components"

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float32
}

// Integrate advances pos by vel and keeps the particle inside the bounds.
// On contact with an edge the position is clamped and the velocity
// component normal to that edge flips sign, so speed is preserved.
func (b Bounds) Integrate(pos *components.Position, vel *components.Velocity) {
	pos.X += vel.X
	pos.Y += vel.Y

	if pos.X < 0 {
		pos.X = 0
		vel.X = absf(vel.X)
	} else if pos.X > b.Width {
		pos.X = b.Width
		vel.X = -absf(vel.X)
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = absf(vel.Y)
	} else if pos.Y > b.Height {
		pos.Y = b.Height
		vel.Y = -absf(vel.Y)
	}
}

// Clamp forces a position inside the bounds without touching velocity.
func (b Bounds) Clamp(x, y float32) (float32, float32) {
	return clampFloat(x, 0, b.Width), clampFloat(y, 0, b.Height)
}

// Contains reports whether a position lies inside the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// steer points vel along (dx, dy) at the given speed.
// A zero-length direction leaves vel unchanged.
func steer(vel *components.Velocity, dx, dy, speed float32) {
	mag := velocityMagnitude(dx, dy)
	if mag < 1e-6 {
		return
	}
	vel.X = dx / mag * speed
	vel.Y = dy / mag * speed
}

// limitSpeed scales vel down so its magnitude does not exceed maxSpeed.
func limitSpeed(vel *components.Velocity, maxSpeed float32) {
	mag := velocityMagnitude(vel.X, vel.Y)
	if mag > maxSpeed && mag > 0 {
		scale := maxSpeed / mag
		vel.X *= scale
		vel.Y *= scale
	}
}
