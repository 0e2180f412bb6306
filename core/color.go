package core

// Color is a linear RGBA colour with float components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}

	// NoTint is white with zero strength. Used as the default vertex and draw colour.
	NoTint = Color{1, 1, 1, 0}
)

func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NewColorRGB8 builds an opaque colour from 8-bit channels.
func NewColorRGB8(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: 1,
	}
}

func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// RGBA8 converts to 8-bit channels, clamping out of range components.
func (c Color) RGBA8() [4]uint8 {
	conv := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return [4]uint8{conv(c.R), conv(c.G), conv(c.B), conv(c.A)}
}
