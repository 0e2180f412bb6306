package host

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/canvas3d"
	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var ErrNoFrame = errors.New("host: no frame in progress")

// Window is a glfw window with a WebGPU surface. It implements canvas3d.Host.
// All methods must be called from the main thread.
type Window struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	device *wgpu.Device
	queue  *wgpu.Queue
	depth  *ScreenImage
	logger canvas3d.Logger

	encoder   *wgpu.CommandEncoder
	frame     *wgpu.Texture
	frameView *wgpu.TextureView
	images    []*Image
}

var _ canvas3d.Host = (*Window)(nil)

func NewWindow(cfg Config, logger canvas3d.Logger) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = canvas3d.NewNopLogger()
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{
		Window: win,
		depth:  NewScreenImage("canvas3d depth", wgpu.TextureFormatDepth32Float),
		logger: logger,
	}
	if err := w.initGpu(cfg); err != nil {
		w.Release()
		return nil, err
	}
	return w, nil
}

func (w *Window) initGpu(cfg Config) error {
	w.Instance = wgpu.CreateInstance(nil)
	w.Surface = w.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.Window))

	adapter, err := w.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: w.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	w.Adapter = adapter

	w.device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "canvas3d device"})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	w.queue = w.device.GetQueue()

	width, height := w.Window.GetFramebufferSize()
	caps := w.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return errors.New("surface reports no formats")
	}
	present := wgpu.PresentModeFifo
	if !cfg.VSync {
		present = wgpu.PresentModeImmediate
	}
	w.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: present,
		AlphaMode:   caps.AlphaModes[0],
	}
	w.Surface.Configure(adapter, w.device, w.Config)
	w.logger.Infof("surface %dx%d format %v", width, height, w.Config.Format)
	return nil
}

func (w *Window) Device() canvas3d.Device { return w.device }

func (w *Window) Queue() canvas3d.Queue { return w.queue }

func (w *Window) SurfaceFormat() wgpu.TextureFormat { return w.Config.Format }

func (w *Window) SurfaceSize() (uint32, uint32) { return w.Config.Width, w.Config.Height }

// Resize reconfigures the surface. Zero sizes (minimised windows) are ignored.
func (w *Window) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	w.Config.Width = uint32(width)
	w.Config.Height = uint32(height)
	w.Surface.Configure(w.Adapter, w.device, w.Config)
	return true
}

// BeginFrame acquires the next surface texture and a command encoder for it.
func (w *Window) BeginFrame() error {
	if w.encoder != nil {
		return errors.New("host: frame already in progress")
	}
	frame, err := w.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	view, err := frame.CreateView(nil)
	if err != nil {
		frame.Release()
		return fmt.Errorf("create frame view: %w", err)
	}
	encoder, err := w.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		frame.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}
	w.frame, w.frameView, w.encoder = frame, view, encoder
	return nil
}

// EndFrame submits the recorded commands and presents the frame.
func (w *Window) EndFrame() error {
	if w.encoder == nil {
		return ErrNoFrame
	}
	defer w.releaseFrame()

	cmd, err := w.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	w.queue.Submit(cmd)
	w.Surface.Present()
	return nil
}

func (w *Window) releaseFrame() {
	if w.encoder != nil {
		w.encoder.Release()
		w.encoder = nil
	}
	if w.frameView != nil {
		w.frameView.Release()
		w.frameView = nil
	}
	if w.frame != nil {
		w.frame.Release()
		w.frame = nil
	}
}

func (w *Window) FrameView() (*wgpu.TextureView, error) {
	if w.frameView == nil {
		return nil, ErrNoFrame
	}
	return w.frameView, nil
}

func (w *Window) DepthView() (*wgpu.TextureView, error) {
	return w.depth.View(w.device, w.Config.Width, w.Config.Height)
}

func (w *Window) BeginRenderPass(desc *wgpu.RenderPassDescriptor) (canvas3d.RenderPass, error) {
	if w.encoder == nil {
		return nil, ErrNoFrame
	}
	return w.encoder.BeginRenderPass(desc), nil
}

// ImageFromColor creates a solid colour image owned by the window and released with it.
func (w *Window) ImageFromColor(width, height uint32, c core.Color) (canvas3d.Texture, error) {
	img, err := NewImageFromColor(w.device, w.queue, width, height, c)
	if err != nil {
		return nil, err
	}
	w.images = append(w.images, img)
	return img, nil
}

// LoadImage decodes an image file into a texture owned by the window.
func (w *Window) LoadImage(path string) (*Image, error) {
	img, err := LoadImage(w.device, w.queue, path)
	if err != nil {
		return nil, err
	}
	w.images = append(w.images, img)
	return img, nil
}

func (w *Window) ShouldClose() bool { return w.Window.ShouldClose() }

func (w *Window) Release() {
	w.releaseFrame()
	for _, img := range w.images {
		img.Release()
	}
	w.images = nil
	if w.depth != nil {
		w.depth.Release()
	}
	if w.queue != nil {
		w.queue.Release()
		w.queue = nil
	}
	if w.device != nil {
		w.device.Release()
		w.device = nil
	}
	if w.Adapter != nil {
		w.Adapter.Release()
		w.Adapter = nil
	}
	if w.Surface != nil {
		w.Surface.Release()
		w.Surface = nil
	}
	if w.Instance != nil {
		w.Instance.Release()
		w.Instance = nil
	}
	if w.Window != nil {
		w.Window.Destroy()
		w.Window = nil
		glfw.Terminate()
	}
}
