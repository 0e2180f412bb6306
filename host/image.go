package host

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image is an RGBA8 texture that meshes can sample.
type Image struct {
	Width, Height uint32

	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (i *Image) View() *wgpu.TextureView { return i.view }

func (i *Image) Release() {
	if i.view != nil {
		i.view.Release()
		i.view = nil
	}
	if i.texture != nil {
		i.texture.Release()
		i.texture = nil
	}
}

// DecodeImage reads png, jpeg, bmp or webp data into an RGBA image with its origin at (0, 0).
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}

// SolidImage is a w by h RGBA image filled with c.
func SolidImage(w, h int, c core.Color) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	v := c.RGBA8()
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}}, image.Point{}, draw.Src)
	return rgba
}

func NewImageFromRGBA(dev *wgpu.Device, queue *wgpu.Queue, img *image.RGBA) (*Image, error) {
	w, h := uint32(img.Bounds().Dx()), uint32(img.Bounds().Dy())
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image has zero size %dx%d", w, h)
	}
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	texture, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "canvas3d image",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create image texture: %w", err)
	}

	err = queue.WriteTexture(
		texture.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: h,
		},
		&extent,
	)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("upload image texels: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create image view: %w", err)
	}
	return &Image{Width: w, Height: h, texture: texture, view: view}, nil
}

func NewImageFromColor(dev *wgpu.Device, queue *wgpu.Queue, w, h uint32, c core.Color) (*Image, error) {
	return NewImageFromRGBA(dev, queue, SolidImage(int(w), int(h), c))
}

func LoadImage(dev *wgpu.Device, queue *wgpu.Queue, path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rgba, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewImageFromRGBA(dev, queue, rgba)
}
