// Package lines claims output lines on a GPIO controller.
//
// Three backends are available: the Linux GPIO character device (CDev),
// the periph.io pin registry (Periph) and the memory-mapped BCM283x
// registers of a Raspberry Pi (RPIO). They all hand out Line values that
// speak gpio.Level, so a bit-banged protocol can run on any of them.
package lines

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Backend names a line controller implementation.
type Backend string

const (
	// CDev uses /dev/gpiochipN through the character device ABI.
	CDev Backend = "cdev"
	// Periph looks pins up by number in the periph.io registry.
	Periph Backend = "periph"
	// RPIO maps the BCM283x GPIO registers directly.
	RPIO Backend = "rpio"
)

// ErrBackend is returned by Open for an unknown backend.
var ErrBackend = errors.New("lines: unknown backend")

// Line is a claimed output line.
type Line interface {
	Out(l gpio.Level) error
	Close() error
}

// Chip hands out output lines.
type Chip interface {
	// Output claims pin as an output driven low. consumer labels the claim
	// where the backend supports it.
	Output(pin int, consumer string) (Line, error)
	Close() error
}

// Open opens the controller. device is the chip path for CDev and is
// ignored by the other backends.
func Open(b Backend, device string) (Chip, error) {
	var (
		c   Chip
		err error
	)
	switch b {
	case CDev:
		c, err = openCDev(device)
	case Periph:
		c, err = openPeriph()
	case RPIO:
		c, err = openRPIO()
	default:
		return nil, fmt.Errorf("%w %q", ErrBackend, b)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
