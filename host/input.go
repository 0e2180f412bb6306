package host

import (
	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func (w *Window) Pressed(key glfw.Key) bool {
	state := w.Window.GetKey(key)
	return state == glfw.Press || state == glfw.Repeat
}

func (w *Window) axis(negative, positive glfw.Key) float32 {
	var v float32
	if w.Pressed(positive) {
		v++
	}
	if w.Pressed(negative) {
		v--
	}
	return v
}

// FlyInput maps WASD to walking, Space/C to climbing and the arrow keys to turning.
func (w *Window) FlyInput() core.FlyInput {
	return core.FlyInput{
		Move: [3]float32{
			w.axis(glfw.KeyA, glfw.KeyD),
			w.axis(glfw.KeyC, glfw.KeySpace),
			w.axis(glfw.KeyS, glfw.KeyW),
		},
		Turn: [2]float32{
			w.axis(glfw.KeyLeft, glfw.KeyRight),
			w.axis(glfw.KeyDown, glfw.KeyUp),
		},
	}
}

// OnResize registers fn for framebuffer size changes after the surface has been reconfigured.
// Zero sizes are filtered out.
func (w *Window) OnResize(fn func(width, height int)) {
	w.Window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.Resize(width, height) {
			fn(width, height)
		}
	})
}

// OnKeyPress registers fn for key presses, ignoring repeats and releases.
func (w *Window) OnKeyPress(fn func(key glfw.Key)) {
	w.Window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			fn(key)
		}
	})
}
