package canvas3d

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
	"github.com/gekko3d/canvas3d/shaders"
)

const (
	cameraUniformSize  = 64
	instanceStride     = 80
	defaultHeadroom    = 128
	defaultDepthFormat = wgpu.TextureFormatDepth32Float
	defaultShaderName  = "canvas3d default"
)

// DrawState3d is the render state in effect when a draw was queued. Finish renders the whole
// frame with the canvas' current state, so a command's State only records what was active.
type DrawState3d struct {
	Shader *Shader
}

// DrawCommand3d is one queued draw. It holds the mesh's GPU resources as they were when Draw was called.
type DrawCommand3d struct {
	Mesh  *Mesh3d
	State DrawState3d
	Param core.DrawParam3d

	res *meshResources
}

type Option func(*Canvas3d)

// WithLogger routes canvas warnings to l. A nil l keeps the canvas silent.
func WithLogger(l Logger) Option {
	return func(c *Canvas3d) {
		if l == nil {
			l = NewNopLogger()
		}
		c.logger = l
	}
}

// WithProjection replaces the default projection. The aspect ratio is still taken from the surface.
func WithProjection(p core.Projection) Option {
	return func(c *Canvas3d) { c.camera.Projection = p }
}

func WithDepthFormat(f wgpu.TextureFormat) Option {
	return func(c *Canvas3d) { c.builder.Config.DepthFormat = f }
}

// WithInstanceHeadroom sets how many extra instances the instance buffer grows by.
func WithInstanceHeadroom(n uint32) Option {
	return func(c *Canvas3d) { c.headroom = n }
}

// Canvas3d batches 3D draws for one frame and records them into a single render pass.
// It is not safe for concurrent use.
type Canvas3d struct {
	host   Host
	logger Logger

	builder  PipelineBuilder
	pipeline *Pipeline

	defaultShader *Shader
	state         DrawState3d
	dirtyPipeline bool

	draws []DrawCommand3d

	camera          core.CameraBundle
	cameraUniform   core.CameraUniform
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	instances      []core.Instance3d
	instanceBuffer *wgpu.Buffer
	instanceCap    uint32
	headroom       uint32

	white Texture

	pipelineBuilds int
}

// NewCanvas3d sets up the default shader, pipeline and camera on the host device.
// It panics if the built-in shader cannot be turned into a pipeline.
func NewCanvas3d(host Host, opts ...Option) (*Canvas3d, error) {
	c := &Canvas3d{
		host:          host,
		logger:        NewNopLogger(),
		camera:        core.NewCameraBundle(),
		cameraUniform: core.NewCameraUniform(),
		headroom:      defaultHeadroom,
		builder: PipelineBuilder{
			Config: PipelineConfig{
				SurfaceFormat: host.SurfaceFormat(),
				DepthFormat:   defaultDepthFormat,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	dev := host.Device()
	layouts, err := createPipelineLayouts(dev)
	if err != nil {
		return nil, fmt.Errorf("canvas3d: %w", err)
	}
	c.builder.Layouts = layouts

	shader, err := NewShaderBuilder(defaultShaderName).Code(shaders.CubeWGSL).skipValidation().Build(dev)
	if err != nil {
		panic(fmt.Errorf("canvas3d: default shader: %w", err))
	}
	c.defaultShader = shader
	c.builder.Fallback = shader
	c.state = DrawState3d{Shader: shader}

	c.pipeline, err = c.builder.Build(dev, shader)
	if err != nil {
		panic(fmt.Errorf("canvas3d: default pipeline: %w", err))
	}
	c.pipelineBuilds++

	if w, h := host.SurfaceSize(); w > 0 && h > 0 {
		c.camera.Projection.Resize(float32(w), float32(h))
	}
	c.cameraUniform.UpdateViewProj(c.camera)

	c.cameraBuffer, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "canvas3d camera buffer",
		Contents: toBufferBytes(c.cameraUniform),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("canvas3d: camera buffer: %w", err)
	}

	c.cameraBindGroup, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "canvas3d camera bind group",
		Layout: layouts.Camera,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: c.cameraBuffer, Size: cameraUniformSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("canvas3d: camera bind group: %w", err)
	}

	c.logger.Debugf("canvas3d ready: surface format %v, depth format %v", c.builder.Config.SurfaceFormat, c.builder.Config.DepthFormat)
	return c, nil
}

func (c *Canvas3d) Logger() Logger { return c.logger }

// Layouts exposes the bind group layouts meshes are uploaded against.
func (c *Canvas3d) Layouts() *PipelineLayouts { return c.builder.Layouts }

func (c *Canvas3d) Pipeline() *Pipeline { return c.pipeline }

func (c *Canvas3d) DefaultShader() *Shader { return c.defaultShader }

// Shader is the shader the next queued draws will capture.
func (c *Canvas3d) Shader() *Shader { return c.state.Shader }

// PipelineBuilds counts how many render pipelines this canvas has created.
func (c *Canvas3d) PipelineBuilds() int { return c.pipelineBuilds }

// Pending is the number of draws queued since the last Finish.
func (c *Canvas3d) Pending() int { return len(c.draws) }

// CameraBundle gives mutable access to the camera and projection. Call UpdateCamera after changing it.
func (c *Canvas3d) CameraBundle() *core.CameraBundle { return &c.camera }

// UploadMesh uploads m against this canvas' texture bind group layout.
// Untextured meshes share one white image per canvas.
func (c *Canvas3d) UploadMesh(m *Mesh3d) error {
	if m.Texture == nil && c.white == nil {
		white, err := c.host.ImageFromColor(1, 1, core.White)
		if err != nil {
			return fmt.Errorf("upload mesh %s: fallback texture: %w", m.ID, err)
		}
		c.white = white
	}
	return m.upload(c.host, c.builder.Layouts.Texture, c.white)
}

// SetShader selects the shader for the frame being built. The last shader set before Finish
// renders every draw of that frame; the pipeline is rebuilt once, in Finish.
func (c *Canvas3d) SetShader(s *Shader) {
	if s == nil {
		s = c.defaultShader
	}
	c.state.Shader = s
	c.dirtyPipeline = true
}

func (c *Canvas3d) SetDefaultShader() {
	c.SetShader(c.defaultShader)
}

// Draw queues mesh for the current frame. Nothing reaches the GPU until Finish.
func (c *Canvas3d) Draw(mesh *Mesh3d, param core.DrawParam3d) {
	c.draws = append(c.draws, DrawCommand3d{
		Mesh:  mesh,
		State: c.state,
		Param: param,
		res:   mesh.res.acquire(),
	})
}

// UpdateCamera recomputes the view-projection matrix and writes it to the camera buffer.
func (c *Canvas3d) UpdateCamera() error {
	c.cameraUniform.UpdateViewProj(c.camera)
	if err := c.host.Queue().WriteBuffer(c.cameraBuffer, 0, toBufferBytes(c.cameraUniform)); err != nil {
		return fmt.Errorf("canvas3d: write camera uniform: %w", err)
	}
	return nil
}

// Resize updates the projection aspect ratio and the camera uniform together.
// Zero sizes are expected to be filtered out by the caller.
func (c *Canvas3d) Resize(width, height float32) error {
	c.camera.Projection.Resize(width, height)
	return c.UpdateCamera()
}

func (c *Canvas3d) clearDraws() {
	for i := range c.draws {
		c.draws[i].res.release()
		c.draws[i] = DrawCommand3d{}
	}
	c.draws = c.draws[:0]
}

func (d *DrawCommand3d) validate() error {
	switch {
	case d.res == nil || d.res.vertexBuffer == nil:
		return &MissingResourceError{MeshID: d.Mesh.ID, Resource: ResourceVertexBuffer}
	case d.res.indexBuffer == nil:
		return &MissingResourceError{MeshID: d.Mesh.ID, Resource: ResourceIndexBuffer}
	case d.res.bindGroup == nil:
		return &MissingResourceError{MeshID: d.Mesh.ID, Resource: ResourceBindGroup}
	}
	return nil
}

func (c *Canvas3d) rebuildPipeline() error {
	shader := c.state.Shader
	if c.pipeline != nil && c.pipeline.Shader == shader {
		return nil
	}
	p, err := c.builder.Build(c.host.Device(), shader)
	if err != nil {
		return fmt.Errorf("canvas3d: rebuild pipeline for shader %q: %w", shader.Name, err)
	}
	c.pipelineBuilds++
	if c.pipeline != nil && c.pipeline.Render != nil {
		releaseRenderPipeline(c.pipeline.Render)
	}
	c.pipeline = p
	c.logger.Debugf("canvas3d pipeline rebuilt for shader %q", shader.Name)
	return nil
}

func (c *Canvas3d) writeInstances() error {
	c.instances = c.instances[:0]
	for i := range c.draws {
		d := &c.draws[i]
		c.instances = append(c.instances, core.InstanceFromParam(d.Param, d.Mesh.Pivot()))
	}

	n := uint32(len(c.instances))
	if c.instanceBuffer == nil || c.instanceCap < n {
		if c.instanceBuffer != nil {
			releaseBuffer(c.instanceBuffer)
			c.instanceBuffer = nil
		}
		capacity := n + c.headroom
		buf, err := c.host.Device().CreateBuffer(&wgpu.BufferDescriptor{
			Label: "canvas3d instance buffer",
			Size:  uint64(capacity) * instanceStride,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			c.instanceCap = 0
			return fmt.Errorf("canvas3d: instance buffer: %w", err)
		}
		c.instanceBuffer = buf
		c.instanceCap = capacity
		c.logger.Debugf("canvas3d instance buffer grown to %d instances", capacity)
	}

	if err := c.host.Queue().WriteBuffer(c.instanceBuffer, 0, toBufferBytes(c.instances)); err != nil {
		return fmt.Errorf("canvas3d: write instances: %w", err)
	}
	return nil
}

var releaseBuffer = func(b *wgpu.Buffer) { b.Release() }

// Finish records every queued draw, in order, into one render pass that clears to clear.
// The queue is emptied whether or not it succeeds.
func (c *Canvas3d) Finish(clear core.Color) error {
	defer c.clearDraws()

	if c.dirtyPipeline {
		c.dirtyPipeline = false
		if err := c.rebuildPipeline(); err != nil {
			c.logger.Warnf("%v", err)
			return err
		}
	}

	for i := range c.draws {
		if err := c.draws[i].validate(); err != nil {
			c.logger.Warnf("dropping frame of %d draws: %v", len(c.draws), err)
			return err
		}
	}

	if len(c.draws) > 0 {
		if err := c.writeInstances(); err != nil {
			return err
		}
	}

	frameView, err := c.host.FrameView()
	if err != nil {
		return fmt.Errorf("canvas3d: frame view: %w", err)
	}
	depthView, err := c.host.DepthView()
	if err != nil {
		return fmt.Errorf("canvas3d: depth view: %w", err)
	}

	pass, err := c.host.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "canvas3d pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    frameView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.R),
					G: float64(clear.G),
					B: float64(clear.B),
					A: float64(clear.A),
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	if err != nil {
		return fmt.Errorf("canvas3d: begin pass: %w", err)
	}

	if len(c.draws) > 0 {
		pass.SetPipeline(c.pipeline.Render)
		pass.SetBindGroup(CameraGroup, c.cameraBindGroup, nil)
		pass.SetVertexBuffer(InstanceSlot, c.instanceBuffer, 0, wgpu.WholeSize)
	}
	for i := range c.draws {
		res := c.draws[i].res
		pass.SetBindGroup(TextureGroup, res.bindGroup, nil)
		pass.SetVertexBuffer(VertexSlot, res.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(res.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(res.indexCount, 1, 0, 0, uint32(i))
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("canvas3d: end pass: %w", err)
	}
	return nil
}

// Release frees the canvas-owned GPU objects. Queued draws are dropped.
func (c *Canvas3d) Release() {
	c.clearDraws()
	if c.instanceBuffer != nil {
		releaseBuffer(c.instanceBuffer)
		c.instanceBuffer = nil
	}
	if c.pipeline != nil && c.pipeline.Render != nil {
		releaseRenderPipeline(c.pipeline.Render)
		c.pipeline = nil
	}
}
