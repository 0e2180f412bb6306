package host

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ScreenImage is a render attachment that follows the surface size.
// The texture is recreated lazily the first time it is requested at a new size.
type ScreenImage struct {
	Label  string
	Format wgpu.TextureFormat

	width, height uint32
	texture       *wgpu.Texture
	view          *wgpu.TextureView
}

func NewScreenImage(label string, format wgpu.TextureFormat) *ScreenImage {
	return &ScreenImage{Label: label, Format: format}
}

func (s *ScreenImage) View(dev *wgpu.Device, width, height uint32) (*wgpu.TextureView, error) {
	if s.view != nil && s.width == width && s.height == height {
		return s.view, nil
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%s: zero sized surface", s.Label)
	}
	s.Release()

	texture, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         s.Label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        s.Format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("%s view: %w", s.Label, err)
	}
	s.texture, s.view = texture, view
	s.width, s.height = width, height
	return view, nil
}

func (s *ScreenImage) Release() {
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
}
