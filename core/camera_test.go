package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// vecNear compares componentwise with an absolute tolerance; float noise around zero stays well below it.
func vecNear(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "component %d: expected %v, got %v", i, expected, actual)
	}
}

func TestCamera_ForwardAxes(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{}, 0, 0)
	vecNear(t, mgl32.Vec3{1, 0, 0}, cam.GetForward())

	cam.Yaw = mgl32.DegToRad(90)
	vecNear(t, mgl32.Vec3{0, 0, 1}, cam.GetForward())

	cam.Yaw = 0
	cam.Pitch = mgl32.DegToRad(90)
	vecNear(t, mgl32.Vec3{0, 1, 0}, cam.GetForward())
}

func TestCamera_RightIsPerpendicular(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{}, 0.7, 0)
	assert.InDelta(t, 0, cam.GetForward().Dot(cam.GetRight()), 1e-6)
}

func TestCamera_ViewMatrixMovesEyeToOrigin(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{3, -2, 5}, 0.4, -0.3)
	view := cam.GetViewMatrix()

	eye := view.Mul4x1(cam.Position.Vec4(1)).Vec3()
	vecNear(t, mgl32.Vec3{}, eye)

	// A point ahead of the camera lands on the -Z axis in view space.
	ahead := view.Mul4x1(cam.Position.Add(cam.GetForward().Mul(4)).Vec4(1)).Vec3()
	vecNear(t, mgl32.Vec3{0, 0, -4}, ahead)
}

func TestProjection_Resize(t *testing.T) {
	p := DefaultProjection()
	assert.Equal(t, float32(1920)/float32(1080), p.Aspect)

	p.Resize(800, 600)
	assert.Equal(t, float32(800)/float32(600), p.Aspect)
}

func TestProjection_ZeroHeightIsNotGuarded(t *testing.T) {
	p := DefaultProjection()
	p.Resize(800, 0)
	assert.True(t, math.IsInf(float64(p.Aspect), 1))
}

func TestPerspectiveRH_DepthRange(t *testing.T) {
	proj := PerspectiveRH(mgl32.DegToRad(70), 1.5, 0.1, 100)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestCameraUniform_Identity(t *testing.T) {
	u := NewCameraUniform()
	assert.Equal(t, mgl32.Ident4(), u.ViewProj)
}

func TestCameraUniform_UpdateViewProj(t *testing.T) {
	bundle := NewCameraBundle()
	bundle.Camera = NewCamera(mgl32.Vec3{1, 2, 3}, 0.5, 0.1)
	bundle.Projection.Resize(1024, 768)

	u := NewCameraUniform()
	u.UpdateViewProj(bundle)

	expected := PerspectiveRH(bundle.Projection.Fovy, float32(1024)/float32(768), bundle.Projection.ZNear, bundle.Projection.ZFar).
		Mul4(bundle.Camera.GetViewMatrix())
	assert.Equal(t, expected, u.ViewProj)
}
