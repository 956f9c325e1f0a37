package lines

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"periph.io/x/conn/v3/gpio"
)

const consumer = "matrixclock"

// cdevLine is the subset of *gpiod.Line in use.
type cdevLine interface {
	SetValue(value int) error
	Close() error
}

type cdevChip struct {
	chip    *gpiod.Chip
	request func(offset int) (cdevLine, error)
}

func openCDev(device string) (*cdevChip, error) {
	chip, err := gpiod.NewChip(device, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("lines: %s: %w", device, err)
	}
	c := &cdevChip{chip: chip}
	c.request = func(offset int) (cdevLine, error) {
		return chip.RequestLine(offset, gpiod.AsOutput(0))
	}
	return c, nil
}

// Output requests offset pin on the chip. The chip wide consumer label is
// used; name is only reported in errors.
func (c *cdevChip) Output(pin int, name string) (Line, error) {
	l, err := c.request(pin)
	if err != nil {
		return nil, fmt.Errorf("lines: %s: line %d: %w", name, pin, err)
	}
	return &cdevOut{line: l, pin: pin}, nil
}

func (c *cdevChip) Close() error {
	if c.chip == nil {
		return nil
	}
	return c.chip.Close()
}

type cdevOut struct {
	line cdevLine
	pin  int
}

func (o *cdevOut) Out(l gpio.Level) error {
	v := 0
	if l {
		v = 1
	}
	return o.line.SetValue(v)
}

func (o *cdevOut) Close() error {
	return o.line.Close()
}

func (o *cdevOut) String() string {
	return fmt.Sprintf("cdev%d", o.pin)
}
