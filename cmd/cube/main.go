package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/canvas3d"
	"github.com/gekko3d/canvas3d/core"
	"github.com/gekko3d/canvas3d/host"
	"github.com/gekko3d/canvas3d/meshio"
	"github.com/gekko3d/canvas3d/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

type object struct {
	mesh  *canvas3d.Mesh3d
	scale mgl32.Vec3
}

type demo struct {
	win    *host.Window
	canvas *canvas3d.Canvas3d
	logger canvas3d.Logger
	fly    core.FlyCamera

	objects       []object
	fancy         *canvas3d.Shader
	defaultShader bool
	clear         core.Color
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	model := flag.String("model", "", "glTF/glb file to show next to the cubes")
	flag.Parse()

	cfg := host.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = host.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	logger := canvas3d.NewDefaultLogger("cube", cfg.Debug)
	if err := run(cfg, *model, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg host.Config, model string, logger canvas3d.Logger) error {
	win, err := host.NewWindow(cfg, logger)
	if err != nil {
		return err
	}
	defer win.Release()

	canvas, err := canvas3d.NewCanvas3d(win,
		canvas3d.WithLogger(logger),
		canvas3d.WithProjection(cfg.Projection()),
	)
	if err != nil {
		return err
	}
	defer canvas.Release()

	fancy, err := canvas3d.NewShaderBuilder("fancy").FragmentCode(shaders.FancyWGSL).Build(win.Device())
	if err != nil {
		return err
	}
	defer fancy.Release()

	d := &demo{
		win:           win,
		canvas:        canvas,
		logger:        logger,
		fly:           core.NewFlyCamera(),
		fancy:         fancy,
		defaultShader: true,
		clear:         cfg.Clear(),
	}
	if err := d.loadScene(model); err != nil {
		return err
	}
	defer func() {
		for _, o := range d.objects {
			o.mesh.Release()
		}
	}()

	cam := canvas.CameraBundle()
	cam.Camera.Position = mgl32.Vec3{0, 1, -10}
	cam.Camera.Yaw = mgl32.DegToRad(90)

	win.OnResize(func(width, height int) {
		if err := canvas.Resize(float32(width), float32(height)); err != nil {
			logger.Warnf("resize: %v", err)
		}
	})
	win.OnKeyPress(d.keyPressed)

	last := glfw.GetTime()
	for !win.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		d.update(dt)
		if err := d.draw(); err != nil {
			logger.Warnf("frame: %v", err)
		}
	}
	return nil
}

func (d *demo) loadScene(model string) error {
	green := core.Green
	verts, indices := meshio.Box(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, nil)
	for i := 0; i < 3; i++ {
		verts[i].Color = green.Vec4()
	}
	verts[3].Color = core.NewColor(0, 0.1, 0, 1).Vec4()
	if err := d.add(canvas3d.NewMesh3d(verts, indices, nil), mgl32.Vec3{10, 1, 1}); err != nil {
		return err
	}

	purple, err := d.win.ImageFromColor(1, 1, core.NewColorRGB8(50, 10, 50))
	if err != nil {
		return err
	}
	verts, indices = meshio.Box(mgl32.Vec3{2, 2, -1}, mgl32.Vec3{4, 4, 2}, nil)
	if err := d.add(canvas3d.NewMesh3d(verts, indices, purple), mgl32.Vec3{1, 1, 1}); err != nil {
		return err
	}

	if model == "" {
		return nil
	}
	meshes, err := meshio.LoadGLTF(model)
	if err != nil {
		return err
	}
	for _, m := range meshes {
		if err := d.add(canvas3d.NewMesh3d(m.Vertices, m.Indices, nil), mgl32.Vec3{1, 1, 1}); err != nil {
			return err
		}
		d.logger.Infof("loaded %q: %d vertices", m.Name, len(m.Vertices))
	}
	return nil
}

func (d *demo) add(mesh *canvas3d.Mesh3d, scale mgl32.Vec3) error {
	if err := d.canvas.UploadMesh(mesh); err != nil {
		return err
	}
	d.objects = append(d.objects, object{mesh: mesh, scale: scale})
	return nil
}

func (d *demo) keyPressed(key glfw.Key) {
	switch key {
	case glfw.KeyK:
		if d.defaultShader {
			d.canvas.SetShader(d.fancy)
		} else {
			d.canvas.SetDefaultShader()
		}
		d.defaultShader = !d.defaultShader
	case glfw.KeyEscape:
		d.win.Window.SetShouldClose(true)
	}
}

func (d *demo) update(dt float32) {
	if len(d.objects) > 1 {
		if d.win.Pressed(glfw.KeyQ) {
			d.objects[1].scale = d.objects[1].scale.Add(mgl32.Vec3{0.1, 0.1, 0.1})
		}
		if d.win.Pressed(glfw.KeyE) {
			d.objects[1].scale = d.objects[1].scale.Sub(mgl32.Vec3{0.1, 0.1, 0.1})
		}
	}

	d.fly.Apply(&d.canvas.CameraBundle().Camera, d.win.FlyInput(), dt)
	if err := d.canvas.UpdateCamera(); err != nil {
		d.logger.Warnf("camera: %v", err)
	}
}

func (d *demo) draw() error {
	if err := d.win.BeginFrame(); err != nil {
		return err
	}
	for _, o := range d.objects {
		d.canvas.Draw(o.mesh, core.DefaultDrawParam3d().
			WithScale(o.scale).
			WithColor(core.NewColor(0.5, 0, 0, 0.5)))
	}
	finishErr := d.canvas.Finish(d.clear)
	if err := d.win.EndFrame(); err != nil {
		return err
	}
	return finishErr
}
