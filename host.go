package canvas3d

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
)

// Device is the subset of *wgpu.Device the renderer creates resources through.
type Device interface {
	CreateBufferInit(descriptor *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
	CreateSampler(descriptor *wgpu.SamplerDescriptor) (*wgpu.Sampler, error)
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
}

// Queue is the subset of *wgpu.Queue used for buffer writes.
type Queue interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// Texture is an image owned by the host that can be sampled in the fragment stage.
type Texture interface {
	View() *wgpu.TextureView
}

// RenderPass is the subset of *wgpu.RenderPassEncoder recorded by Finish.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64)
	DrawIndexed(indexCount uint32, instanceCount uint32, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// Host is the GPU context of the surrounding 2D framework.
// It owns the window, swapchain, depth image and command encoder for the current frame.
type Host interface {
	Device() Device
	Queue() Queue
	SurfaceFormat() wgpu.TextureFormat
	SurfaceSize() (width, height uint32)

	// FrameView is the colour target for the frame being recorded.
	FrameView() (*wgpu.TextureView, error)
	// DepthView is the screen sized depth image, recreated by the host when the surface resizes.
	DepthView() (*wgpu.TextureView, error)

	ImageFromColor(width, height uint32, c core.Color) (Texture, error)

	// BeginRenderPass records into the host's frame encoder. The host submits it when presenting.
	BeginRenderPass(descriptor *wgpu.RenderPassDescriptor) (RenderPass, error)
}
