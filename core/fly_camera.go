package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89 * math.Pi / 180

// FlyInput is one frame of fly camera controls.
// Move is (right, up, forward) in -1..1, Turn is (yaw, pitch) in -1..1.
type FlyInput struct {
	Move mgl32.Vec3
	Turn mgl32.Vec2
}

// FlyCamera moves a Camera on the horizontal plane and turns it at fixed rates.
type FlyCamera struct {
	Speed    float32 // units per second
	TurnRate float32 // radians per second
}

func NewFlyCamera() FlyCamera {
	return FlyCamera{Speed: 10, TurnRate: mgl32.DegToRad(60)}
}

func (f FlyCamera) Apply(cam *Camera, in FlyInput, dt float32) {
	if dt <= 0 {
		return
	}

	cam.Yaw += in.Turn[0] * f.TurnRate * dt
	cam.Pitch += in.Turn[1] * f.TurnRate * dt
	if cam.Pitch > maxPitch {
		cam.Pitch = maxPitch
	}
	if cam.Pitch < -maxPitch {
		cam.Pitch = -maxPitch
	}

	// Walking ignores pitch so looking down does not sink the camera.
	sin, cos := math.Sincos(float64(cam.Yaw))
	forward := mgl32.Vec3{float32(cos), 0, float32(sin)}
	right := mgl32.Vec3{float32(-sin), 0, float32(cos)}
	up := mgl32.Vec3{0, 1, 0}

	move := right.Mul(in.Move[0]).Add(up.Mul(in.Move[1])).Add(forward.Mul(in.Move[2]))
	if move.Len() > 0 {
		cam.Position = cam.Position.Add(move.Normalize().Mul(f.Speed * dt))
	}
}
