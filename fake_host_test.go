package canvas3d

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
)

type fakeDevice struct {
	bufferInits    []*wgpu.BufferInitDescriptor
	buffers        []*wgpu.BufferDescriptor
	bindGroups     []*wgpu.BindGroupDescriptor
	pipelines      []*wgpu.RenderPipelineDescriptor
	shaderModules  []*wgpu.ShaderModuleDescriptor
	samplers       int
	bindLayouts    int
	pipelineLayout int

	failPipeline   error
	failBufferInit error
}

func (d *fakeDevice) CreateBufferInit(desc *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error) {
	if d.failBufferInit != nil {
		return nil, d.failBufferInit
	}
	d.bufferInits = append(d.bufferInits, desc)
	return &wgpu.Buffer{}, nil
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.buffers = append(d.buffers, desc)
	return &wgpu.Buffer{}, nil
}

func (d *fakeDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.bindLayouts++
	return &wgpu.BindGroupLayout{}, nil
}

func (d *fakeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.bindGroups = append(d.bindGroups, desc)
	return &wgpu.BindGroup{}, nil
}

func (d *fakeDevice) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	d.pipelineLayout++
	return &wgpu.PipelineLayout{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	if d.failPipeline != nil {
		return nil, d.failPipeline
	}
	d.pipelines = append(d.pipelines, desc)
	return &wgpu.RenderPipeline{}, nil
}

func (d *fakeDevice) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	d.samplers++
	return &wgpu.Sampler{}, nil
}

func (d *fakeDevice) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	d.shaderModules = append(d.shaderModules, desc)
	return &wgpu.ShaderModule{}, nil
}

type bufferWrite struct {
	buffer *wgpu.Buffer
	offset uint64
	data   []byte
}

type fakeQueue struct {
	writes []bufferWrite
}

func (q *fakeQueue) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	q.writes = append(q.writes, bufferWrite{buffer: buffer, offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func (q *fakeQueue) lastWriteTo(buffer *wgpu.Buffer) (bufferWrite, bool) {
	for i := len(q.writes) - 1; i >= 0; i-- {
		if q.writes[i].buffer == buffer {
			return q.writes[i], true
		}
	}
	return bufferWrite{}, false
}

type fakeTexture struct {
	view *wgpu.TextureView
}

func (t *fakeTexture) View() *wgpu.TextureView { return t.view }

type recordedDraw struct {
	indexCount    uint32
	instanceCount uint32
	firstInstance uint32
	textureGroup  *wgpu.BindGroup
	cameraGroup   *wgpu.BindGroup
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	pipeline      *wgpu.RenderPipeline
}

type fakePass struct {
	desc     *wgpu.RenderPassDescriptor
	groups   map[uint32]*wgpu.BindGroup
	vertex   map[uint32]*wgpu.Buffer
	index    *wgpu.Buffer
	pipeline *wgpu.RenderPipeline
	draws    []recordedDraw
	ended    bool
}

func (p *fakePass) SetPipeline(pipeline *wgpu.RenderPipeline) { p.pipeline = pipeline }

func (p *fakePass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) {
	p.groups[groupIndex] = group
}

func (p *fakePass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64) {
	p.vertex[slot] = buffer
}

func (p *fakePass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64) {
	p.index = buffer
}

func (p *fakePass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.draws = append(p.draws, recordedDraw{
		indexCount:    indexCount,
		instanceCount: instanceCount,
		firstInstance: firstInstance,
		textureGroup:  p.groups[TextureGroup],
		cameraGroup:   p.groups[CameraGroup],
		vertexBuffer:  p.vertex[VertexSlot],
		indexBuffer:   p.index,
		pipeline:      p.pipeline,
	})
}

func (p *fakePass) End() error {
	p.ended = true
	return nil
}

type fakeHost struct {
	device        *fakeDevice
	queue         *fakeQueue
	width, height uint32
	frameView     *wgpu.TextureView
	depthView     *wgpu.TextureView
	white         *fakeTexture
	colorImages   []core.Color
	passes        []*fakePass
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		device:    &fakeDevice{},
		queue:     &fakeQueue{},
		width:     800,
		height:    600,
		frameView: &wgpu.TextureView{},
		depthView: &wgpu.TextureView{},
		white:     &fakeTexture{view: &wgpu.TextureView{}},
	}
}

func (h *fakeHost) Device() Device                    { return h.device }
func (h *fakeHost) Queue() Queue                      { return h.queue }
func (h *fakeHost) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8Unorm }
func (h *fakeHost) SurfaceSize() (uint32, uint32)     { return h.width, h.height }

func (h *fakeHost) FrameView() (*wgpu.TextureView, error) { return h.frameView, nil }
func (h *fakeHost) DepthView() (*wgpu.TextureView, error) { return h.depthView, nil }

func (h *fakeHost) ImageFromColor(width, height uint32, c core.Color) (Texture, error) {
	h.colorImages = append(h.colorImages, c)
	return h.white, nil
}

func (h *fakeHost) BeginRenderPass(desc *wgpu.RenderPassDescriptor) (RenderPass, error) {
	p := &fakePass{
		desc:   desc,
		groups: map[uint32]*wgpu.BindGroup{},
		vertex: map[uint32]*wgpu.Buffer{},
	}
	h.passes = append(h.passes, p)
	return p, nil
}

type releaseLog struct {
	meshes    []*meshResources
	buffers   []*wgpu.Buffer
	pipelines []*wgpu.RenderPipeline
	modules   []*wgpu.ShaderModule
}

// stubReleases swaps the GPU release hooks for recorders; fake handles have no native object behind them.
func stubReleases(t *testing.T) *releaseLog {
	t.Helper()
	log := &releaseLog{}
	prevMesh, prevBuf, prevPipe, prevMod := releaseMeshResources, releaseBuffer, releaseRenderPipeline, releaseShaderModule
	releaseMeshResources = func(r *meshResources) { log.meshes = append(log.meshes, r) }
	releaseBuffer = func(b *wgpu.Buffer) { log.buffers = append(log.buffers, b) }
	releaseRenderPipeline = func(p *wgpu.RenderPipeline) { log.pipelines = append(log.pipelines, p) }
	releaseShaderModule = func(m *wgpu.ShaderModule) { log.modules = append(log.modules, m) }
	t.Cleanup(func() {
		releaseMeshResources, releaseBuffer, releaseRenderPipeline, releaseShaderModule = prevMesh, prevBuf, prevPipe, prevMod
	})
	return log
}
