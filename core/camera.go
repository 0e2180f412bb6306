package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a yaw/pitch fly camera. Angles are radians; world up is +Y.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

func NewCamera(position mgl32.Vec3, yaw, pitch float32) Camera {
	return Camera{
		Position: position,
		Yaw:      yaw,
		Pitch:    pitch,
	}
}

func (c Camera) GetForward() mgl32.Vec3 {
	sinPitch, cosPitch := math.Sincos(float64(c.Pitch))
	sinYaw, cosYaw := math.Sincos(float64(c.Yaw))
	return mgl32.Vec3{
		float32(cosPitch * cosYaw),
		float32(sinPitch),
		float32(cosPitch * sinYaw),
	}.Normalize()
}

// GetRight is the horizontal right vector, ignoring pitch.
func (c Camera) GetRight() mgl32.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(c.Yaw))
	return mgl32.Vec3{float32(-sinYaw), 0, float32(cosYaw)}
}

func (c Camera) GetViewMatrix() mgl32.Mat4 {
	return LookToRH(c.Position, c.GetForward(), mgl32.Vec3{0, 1, 0})
}

// LookToRH builds a right handed view matrix looking from eye along dir.
func LookToRH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(dir.Normalize()), up)
}

type Projection struct {
	Aspect float32
	Fovy   float32
	ZNear  float32
	ZFar   float32
}

// NewProjection derives the aspect ratio from width/height. height must be non-zero.
func NewProjection(width, height float32, fovy, znear, zfar float32) Projection {
	return Projection{
		Aspect: width / height,
		Fovy:   fovy,
		ZNear:  znear,
		ZFar:   zfar,
	}
}

func DefaultProjection() Projection {
	return NewProjection(1920, 1080, mgl32.DegToRad(70), 0.1, 100)
}

// Resize updates the aspect ratio. A zero height yields a non-finite aspect.
func (p *Projection) Resize(width, height float32) {
	p.Aspect = width / height
}

func (p Projection) GetMatrix() mgl32.Mat4 {
	return PerspectiveRH(p.Fovy, p.Aspect, p.ZNear, p.ZFar)
}

// PerspectiveRH is a right handed perspective projection mapping depth to [0, 1] as WebGPU expects.
func PerspectiveRH(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := float32(1 / math.Tan(float64(fovy)/2))
	r := far / (near - far)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, r, -1,
		0, 0, r * near, 0,
	}
}

type CameraBundle struct {
	Camera     Camera
	Projection Projection
}

func NewCameraBundle() CameraBundle {
	return CameraBundle{Projection: DefaultProjection()}
}

// ViewProj is projection * view.
func (b CameraBundle) ViewProj() mgl32.Mat4 {
	return b.Projection.GetMatrix().Mul4(b.Camera.GetViewMatrix())
}

// CameraUniform is the only camera state the GPU sees: 64 bytes at group 1 binding 0.
type CameraUniform struct {
	ViewProj mgl32.Mat4
}

func NewCameraUniform() CameraUniform {
	return CameraUniform{ViewProj: mgl32.Ident4()}
}

func (u *CameraUniform) UpdateViewProj(b CameraBundle) {
	u.ViewProj = b.ViewProj()
}
