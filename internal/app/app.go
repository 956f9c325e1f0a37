// Package app wires the configured hardware together and runs the clock.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/flavioheleno/matrixclock/aht10"
	"github.com/flavioheleno/matrixclock/config"
	"github.com/flavioheleno/matrixclock/internal/log"
	"github.com/flavioheleno/matrixclock/lines"
	"github.com/flavioheleno/matrixclock/max7219"
	"github.com/flavioheleno/matrixclock/scheduler"
)

// spiFreq is well under the 10MHz limit of the MAX7219 so long chains with
// cheap wiring still latch cleanly.
const spiFreq = 4 * physic.MegaHertz

// Env opens the hardware. Nil fields use the real devices.
type Env struct {
	Lines   func(b lines.Backend, device string) (lines.Chip, error)
	SPI     func(name string) (spi.PortCloser, error)
	I2C     func(name string) (i2c.BusCloser, error)
	Clock   scheduler.Clock
	Sleeper aht10.Sleeper
}

func (e *Env) openLines(b lines.Backend, device string) (lines.Chip, error) {
	if e.Lines != nil {
		return e.Lines(b, device)
	}
	return lines.Open(b, device)
}

func (e *Env) openSPI(name string) (spi.PortCloser, error) {
	if e.SPI != nil {
		return e.SPI(name)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return spireg.Open(name)
}

func (e *Env) openI2C(name string) (i2c.BusCloser, error) {
	if e.I2C != nil {
		return e.I2C(name)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return i2creg.Open(name)
}

// Display is an open matrix chain together with what it was opened on.
type Display struct {
	*max7219.Dev
	closers []func() error
}

// Close releases the lines or the SPI port. The picture stays latched in the
// modules.
func (d *Display) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// OpenDisplay opens the chain described by cfg, over hardware SPI when
// cfg.SPI names a port and bit-banged on three lines otherwise. The returned
// display is blank.
func (e *Env) OpenDisplay(ctx context.Context, cfg config.Display) (*Display, error) {
	opts := &max7219.Opts{Units: cfg.NumberOfMatrices, Brightness: cfg.Brightness}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	l := log.FromContext(ctx)

	if cfg.SPI != "" {
		p, err := e.openSPI(cfg.SPI)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", max7219.ErrConnection, err)
		}
		c, err := p.Connect(spiFreq, spi.Mode0, 8)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("%w: %w", max7219.ErrConnection, err)
		}
		dev, err := max7219.New(c, opts)
		if err != nil {
			p.Close()
			return nil, err
		}
		l.Info("display opened", zap.String("spi", cfg.SPI), zap.Int("units", cfg.NumberOfMatrices))
		return &Display{Dev: dev, closers: []func() error{p.Close}}, nil
	}

	chip, err := e.openLines(lines.Backend(cfg.Backend), cfg.GPIODev)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", max7219.ErrConnection, err)
	}
	claim := func(pin int, consumer string) (max7219.Line, error) {
		return chip.Output(pin, consumer)
	}
	dev, err := max7219.NewBitBang(claim, max7219.Pins{
		Data:  cfg.DataPin,
		CS:    cfg.CSPin,
		Clock: cfg.ClkPin,
	}, opts)
	if err != nil {
		chip.Close()
		return nil, err
	}
	l.Info("display opened",
		zap.String("backend", cfg.Backend),
		zap.String("gpio_dev", cfg.GPIODev),
		zap.Int("data", cfg.DataPin),
		zap.Int("cs", cfg.CSPin),
		zap.Int("clk", cfg.ClkPin),
		zap.Int("units", cfg.NumberOfMatrices))
	return &Display{Dev: dev, closers: []func() error{chip.Close, dev.Close}}, nil
}

// Sensor is an initialized AHT10 and its bus.
type Sensor struct {
	*aht10.Device
	bus i2c.BusCloser
}

// Close releases the bus.
func (s *Sensor) Close() error {
	return s.bus.Close()
}

// OpenSensor opens the bus named by cfg and initializes the sensor on it.
func (e *Env) OpenSensor(ctx context.Context, cfg config.Sensor) (*Sensor, error) {
	bus, err := e.openI2C(busName(cfg.I2CDev))
	if err != nil {
		return nil, err
	}
	d := aht10.New(bus, e.Sleeper)
	if err := d.Init(); err != nil {
		bus.Close()
		return nil, err
	}
	log.FromContext(ctx).Info("sensor ready", zap.String("bus", bus.String()))
	return &Sensor{Device: d, bus: bus}, nil
}

// busName turns a Linux device path such as /dev/i2c-1 into the bus number
// the periph registry knows it by. Other names pass through.
func busName(dev string) string {
	return strings.TrimPrefix(dev, "/dev/i2c-")
}

// Run opens the display and, unless clean is set, the sensor, then runs the
// scheduler until it fails or ctx is cancelled. With clean the display is
// left blank and Run returns at once.
//
// Failures are returned as *scheduler.Error naming the stage.
func (e *Env) Run(ctx context.Context, cfg *config.Config, clean bool) error {
	l := log.FromContext(ctx)

	d, err := e.OpenDisplay(ctx, cfg.Display)
	if err != nil {
		return &scheduler.Error{Stage: scheduler.StageDisplay, Err: err}
	}
	defer func() {
		if err := d.Close(); err != nil {
			l.WithError(err).Warn("releasing display")
		}
	}()
	if clean {
		l.Info("display cleared")
		return nil
	}

	s, err := e.OpenSensor(ctx, cfg.Weather.Sensor)
	if err != nil {
		return &scheduler.Error{Stage: scheduler.StageSensorInit, Err: err}
	}
	defer s.Close()

	l.Info("clock started",
		zap.Int("interval", cfg.Weather.DisplayIntervalSec),
		zap.Bool("slim", cfg.Display.Slim))
	sch := scheduler.New(d, s, e.Clock, &scheduler.Opts{
		Interval:        cfg.Weather.DisplayIntervalSec,
		TemperatureHold: cfg.Weather.TemperatureHold(),
		HumidityHold:    cfg.Weather.HumidityHold(),
		Slim:            cfg.Display.Slim,
	})
	return sch.Run(ctx)
}
