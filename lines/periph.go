package lines

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// hostInit registers the host drivers. Swapped out in tests.
var hostInit = func() error {
	_, err := host.Init()
	return err
}

type periphChip struct{}

func openPeriph() (periphChip, error) {
	if err := hostInit(); err != nil {
		return periphChip{}, fmt.Errorf("lines: periph: %w", err)
	}
	return periphChip{}, nil
}

// Output looks pin up by its number, as aliased by the host drivers, and
// drives it low.
func (periphChip) Output(pin int, name string) (Line, error) {
	p := gpioreg.ByName(strconv.Itoa(pin))
	if p == nil {
		return nil, fmt.Errorf("lines: %s: no GPIO %d", name, pin)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("lines: %s: %s: %w", name, p, err)
	}
	return periphOut{p}, nil
}

func (periphChip) Close() error { return nil }

type periphOut struct {
	gpio.PinIO
}

// Close halts the pin.
func (o periphOut) Close() error {
	return o.Halt()
}
