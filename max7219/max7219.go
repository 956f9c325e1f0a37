package max7219

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/flavioheleno/matrixclock/max7219/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// MaxUnits is the longest supported chain.
const MaxUnits = 16

// Registers, see the MAX7219 datasheet table 2.
const (
	regNoop        byte = 0x00
	regDigit0      byte = 0x01 // row registers are regDigit0..regDigit0+7
	regDecodeMode  byte = 0x09
	regIntensity   byte = 0x0A
	regScanLimit   byte = 0x0B
	regShutdown    byte = 0x0C
	regDisplayTest byte = 0x0F
)

// DecodeMode is the value of the decode-mode register.
type DecodeMode byte

const (
	// DecodeNone writes row registers as raw dot patterns; required for matrices.
	DecodeNone DecodeMode = 0x00
	// DecodeB interprets row registers as Code B font digits (7-segment use).
	DecodeB DecodeMode = 0xFF
)

var (
	// ErrModuleCount is returned when the chain length is outside [1, MaxUnits].
	ErrModuleCount = errors.New("max7219: module count out of range")
	// ErrConnection is returned when an output line cannot be claimed.
	ErrConnection = errors.New("max7219: connection error")
	// ErrData is returned when a frame cannot be written to the chain.
	ErrData = errors.New("max7219: data error")
	// ErrHalted is returned by every operation after Halt.
	ErrHalted = errors.New("max7219: halted")
)

// Opts is the configuration for a chain of MAX7219 driven 8x8 matrices.
type Opts struct {
	Units      int  // Number of chained modules (1..16)
	Brightness byte // Intensity applied at start (0x0-0xF)
}

// Validate reports ErrModuleCount for a chain outside [1, MaxUnits]. New and
// NewBitBang call it before touching any hardware.
func (o *Opts) Validate() error {
	if o.Units < 1 || o.Units > MaxUnits {
		return fmt.Errorf("%w: limit of %d matrices exceeded, used %d", ErrModuleCount, MaxUnits, o.Units)
	}
	return nil
}

// Frame is the content of one module: one byte per row, bit 7-k lights column k.
type Frame [8]byte

// PixelFunc returns the intensity of the dot at (x, y); nonzero is lit.
// x spans [0, 8*units), y spans [0, 8).
type PixelFunc func(x, y int) byte

// Dev is a handle to a chain of MAX7219 modules addressed as one canvas.
type Dev struct {
	c     conn.Conn
	units int
	rect  image.Rectangle

	halted bool
}

// ClaimFunc claims the output line with the given number.
type ClaimFunc func(pin int, consumer string) (Line, error)

// Pins are the line numbers of the bit-banged link.
type Pins struct {
	Data  int // DIN
	CS    int // LOAD/CS
	Clock int // CLK
}

// NewBitBang claims the three lines of pins with claim and returns a ready
// Dev driven over a Port on them.
//
// The module count is checked before any line is claimed. If a claim fails,
// the lines claimed so far are released.
func NewBitBang(claim ClaimFunc, pins Pins, opts *Opts) (*Dev, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var claimed []Line
	release := func() {
		for _, l := range claimed {
			if c, ok := l.(io.Closer); ok {
				_ = c.Close()
			}
		}
	}
	for _, p := range []struct {
		n    int
		name string
	}{
		{pins.Data, "max7219-data"},
		{pins.CS, "max7219-cs"},
		{pins.Clock, "max7219-clk"},
	} {
		l, err := claim(p.n, p.name)
		if err != nil {
			release()
			return nil, fmt.Errorf("%w: line %d: %w", ErrConnection, p.n, err)
		}
		claimed = append(claimed, l)
	}

	d, err := New(NewPort(claimed[0], claimed[1], claimed[2]), opts)
	if err != nil {
		release()
		return nil, err
	}
	return d, nil
}

// New returns a Dev writing to c, which is either a Port or a hardware SPI
// connection with chip-select framing.
//
// Before returning, every module is taken out of display-test mode, scans all
// 8 rows, decodes nothing, is cleared and switched on, and gets the requested
// brightness. A live Dev is always blank.
func New(c conn.Conn, opts *Opts) (*Dev, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	d := &Dev{
		c:     c,
		units: opts.Units,
		rect:  image.Rect(0, 0, 8*opts.Units, 8),
	}
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to every module.
func (d *Dev) init(opts *Opts) error {
	for i := 0; i < d.units; i++ {
		cmds := [][2]byte{
			{regDisplayTest, 0x00},
			{regScanLimit, 0x07},
			{regShutdown, 0x01}, // Normal operation
			{regDecodeMode, byte(DecodeNone)},
		}
		for _, cmd := range cmds {
			if err := d.write(i, cmd[0], cmd[1]); err != nil {
				return err
			}
		}
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.SetBrightness(opts.Brightness)
}

// write sends one register write to module i. Every other module in the chain
// receives a no-op, so the frame is 2*units bytes long and the addressed pair
// sits at offset 2*i.
func (d *Dev) write(i int, reg, data byte) error {
	buf := make([]byte, 2*d.units)
	buf[2*i] = reg
	buf[2*i+1] = data
	if err := d.c.Tx(buf, nil); err != nil {
		return fmt.Errorf("%w: module %d register 0x%02X: %w", ErrData, i, reg, err)
	}
	return nil
}

// writeFrame writes the 8 row registers of module i.
func (d *Dev) writeFrame(i int, f Frame) error {
	for row, b := range f {
		if err := d.write(i, regDigit0+byte(row), b); err != nil {
			return err
		}
	}
	return nil
}

// Units returns the number of modules in the chain.
func (d *Dev) Units() int {
	return d.units
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// SetBrightness sets the intensity register of every module.
//
// The register is 4 bits wide. Values above 0x0F are sent as is and the
// chip ignores the high nibble; callers should keep to 0x0-0xF.
func (d *Dev) SetBrightness(level byte) error {
	if d.halted {
		return ErrHalted
	}
	for i := 0; i < d.units; i++ {
		if err := d.write(i, regIntensity, level); err != nil {
			return err
		}
	}
	return nil
}

// Clear blanks every module.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	for i := 0; i < d.units; i++ {
		if err := d.writeFrame(i, Frame{}); err != nil {
			return err
		}
	}
	return nil
}

// Frames evaluates fn over the whole canvas and returns one Frame per module.
func (d *Dev) Frames(fn PixelFunc) []Frame {
	img := image1bit.NewRowMSB(d.rect)
	for y := 0; y < 8; y++ {
		for x := 0; x < d.rect.Dx(); x++ {
			if fn(x, y) != 0 {
				img.SetBit(x, y, image1bit.On)
			}
		}
	}
	frames := make([]Frame, d.units)
	for y := 0; y < 8; y++ {
		row := img.Row(y)
		for i := range frames {
			frames[i][y] = row[i]
		}
	}
	return frames
}

// DrawFunc replaces the whole picture with the dots fn lights.
//
// All frames are computed before the first write. A write error aborts the
// draw; modules already written keep their new content until the next draw.
func (d *Dev) DrawFunc(fn PixelFunc) error {
	if d.halted {
		return ErrHalted
	}
	for i, f := range d.Frames(fn) {
		if err := d.writeFrame(i, f); err != nil {
			return err
		}
	}
	return nil
}

// Draw implements display.Drawer. The dst rectangle of the display shows src
// starting at sp; everything outside dst is cleared. Any nonzero luminance
// lights a dot.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	dst = dst.Intersect(d.rect)
	return d.DrawFunc(func(x, y int) byte {
		p := image.Point{X: x, Y: y}
		if !p.In(dst) {
			return 0
		}
		c := src.At(sp.X+x-dst.Min.X, sp.Y+y-dst.Min.Y)
		if image1bit.BitModel.Convert(c).(image1bit.Bit) {
			return 1
		}
		return 0
	})
}

// TestDisplay switches display-test mode (all dots on, full intensity) on
// every module. Mind the current draw on long chains.
func (d *Dev) TestDisplay(on bool) error {
	if d.halted {
		return ErrHalted
	}
	var v byte
	if on {
		v = 0x01
	}
	for i := 0; i < d.units; i++ {
		if err := d.write(i, regDisplayTest, v); err != nil {
			return err
		}
	}
	return nil
}

// Halt puts every module in shutdown mode. The picture is kept in the chips
// but not shown. After a successful Halt every operation returns ErrHalted;
// a failed Halt can be retried.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	for i := 0; i < d.units; i++ {
		if err := d.write(i, regShutdown, 0x00); err != nil {
			return err
		}
	}
	d.halted = true
	return nil
}

// Close releases the connection when it can be released. It does not touch
// the picture.
func (d *Dev) Close() error {
	if c, ok := d.c.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("max7219.Dev{%d units, %dx%d}", d.units, d.rect.Dx(), d.rect.Dy())
}

var _ display.Drawer = &Dev{}
