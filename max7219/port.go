package max7219

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Line is one output line of the bit-banged serial link.
//
// gpio.PinOut from periph satisfies it, and so do the line backends of the
// lines package.
type Line interface {
	Out(l gpio.Level) error
}

// Port emulates the MAX7219 serial interface on three output lines.
//
// Every Tx is one frame: chip-select goes low, every byte is shifted out MSB
// first (data is set, then clock rises and falls), and chip-select goes high,
// which latches the last 16 bits in every chained module.
type Port struct {
	data Line
	cs   Line
	clk  Line
}

// NewPort returns a Port driving the given lines.
func NewPort(data, cs, clk Line) *Port {
	return &Port{data: data, cs: cs, clk: clk}
}

// Tx shifts w out on the data line. The link is write only; r must be empty.
func (p *Port) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("max7219: port is write only")
	}
	if err := p.cs.Out(gpio.Low); err != nil {
		return err
	}
	for _, b := range w {
		if err := p.shiftOut(b); err != nil {
			return err
		}
	}
	return p.cs.Out(gpio.High)
}

// shiftOut sends one byte, most significant bit first.
func (p *Port) shiftOut(b byte) error {
	for i := 0; i < 8; i++ {
		if err := p.data.Out(b&(0x80>>uint(i)) != 0); err != nil {
			return err
		}
		if err := p.clk.Out(gpio.High); err != nil {
			return err
		}
		if err := p.clk.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// Duplex implements conn.Conn.
func (p *Port) Duplex() conn.Duplex {
	return conn.Half
}

// String implements conn.Conn.
func (p *Port) String() string {
	return fmt.Sprintf("max7219.Port{data=%s, cs=%s, clk=%s}", lineName(p.data), lineName(p.cs), lineName(p.clk))
}

// Close releases the lines that can be released.
func (p *Port) Close() error {
	var errs []error
	for _, l := range []Line{p.data, p.cs, p.clk} {
		if c, ok := l.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

func lineName(l Line) string {
	if s, ok := l.(fmt.Stringer); ok {
		return s.String()
	}
	return "?"
}

var _ conn.Conn = &Port{}
