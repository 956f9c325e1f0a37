package lines

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
)

type rpioChip struct {
	close  func() error
	output func(rpio.Pin)
	write  func(rpio.Pin, rpio.State)
}

func openRPIO() (*rpioChip, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("lines: rpio: %w", err)
	}
	return &rpioChip{
		close:  rpio.Close,
		output: func(p rpio.Pin) { rpio.PinMode(p, rpio.Output) },
		write:  rpio.WritePin,
	}, nil
}

// Output sets BCM pin as an output driven low. The register interface has
// no consumer labels.
func (c *rpioChip) Output(pin int, name string) (Line, error) {
	if pin < 0 || pin > 53 {
		return nil, fmt.Errorf("lines: %s: BCM pin %d out of range", name, pin)
	}
	p := rpio.Pin(pin)
	c.output(p)
	c.write(p, rpio.Low)
	return &rpioOut{pin: p, write: c.write}, nil
}

func (c *rpioChip) Close() error {
	return c.close()
}

type rpioOut struct {
	pin   rpio.Pin
	write func(rpio.Pin, rpio.State)
}

func (o *rpioOut) Out(l gpio.Level) error {
	s := rpio.Low
	if l {
		s = rpio.High
	}
	o.write(o.pin, s)
	return nil
}

// Close leaves the pin driven low.
func (o *rpioOut) Close() error {
	o.write(o.pin, rpio.Low)
	return nil
}

func (o *rpioOut) String() string {
	return fmt.Sprintf("BCM%d", o.pin)
}
