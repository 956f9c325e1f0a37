package image1bit

import (
	"image"
	"image/color"
)

// Bit represents a single LED dot: lit or dark.
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA (white when lit, black otherwise).
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit. Any nonzero luminance is lit, so a
// dim gray still turns the dot on; the chain has no per-dot intensity.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y>>8 != 0)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// RowMSB is a 1-bit image stored row by row, 8 pixels per byte, leftmost
// pixel in the most significant bit.
type RowMSB struct {
	Pix    []byte          // Pixel data (8 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewRowMSB creates a new RowMSB image with the specified bounds.
// Row length is rounded up to whole bytes.
func NewRowMSB(r image.Rectangle) *RowMSB {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &RowMSB{Rect: r}
	}
	stride := (w + 7) / 8
	return &RowMSB{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *RowMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *RowMSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *RowMSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit at (x, y). Pixels outside the bounds are Off.
func (p *RowMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.pixOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set sets the color of the pixel at (x, y).
func (p *RowMSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit at (x, y) without color conversion.
func (p *RowMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Row returns the packed bytes of row y (relative to the image origin).
func (p *RowMSB) Row(y int) []byte {
	start := y * p.Stride
	return p.Pix[start : start+p.Stride]
}

// pixOffset returns the byte offset and the bit mask for the pixel at (x, y).
// Bit 7 holds the leftmost pixel of each byte.
func (p *RowMSB) pixOffset(x, y int) (offset int, mask byte) {
	dx := x - p.Rect.Min.X
	offset = (y-p.Rect.Min.Y)*p.Stride + dx/8
	mask = 0x80 >> uint(dx%8)
	return
}
