// Package aht10 provides a driver for the AHT10 temperature/humidity sensor.
//
// The sensor sits at a fixed I²C address. After Init, every Measure triggers
// one conversion, waits for it and decodes the 6-byte reply:
//
//	d := aht10.New(bus, nil)
//	if err := d.Init(); err != nil { ... }
//	r, err := d.Measure()
//
// Readings taken before the sensor reports its calibration as done are
// rejected with ErrUncalibrated; this is expected for a short while after a
// cold power-up and is distinct from a bus failure.
package aht10

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// Address is the fixed I²C address of the AHT10.
const Address = 0x38

const (
	initDelay    = 300 * time.Millisecond
	measureDelay = 100 * time.Millisecond
)

var (
	cmdInit    = []byte{0xE1, 0x08, 0x00}
	cmdMeasure = []byte{0xAC, 0x33, 0x00}
)

// Status bits of the first reply byte.
const (
	statusBusy       = 0x80
	statusMode       = 0x60 // 00 normal, 01 cycle, 1x command
	statusCalibrated = 0x08
)

var (
	// ErrInit is returned when the initialization command cannot be sent.
	ErrInit = errors.New("aht10: init error")
	// ErrMeasure is returned when a measurement cannot be triggered or read.
	ErrMeasure = errors.New("aht10: measure error")
	// ErrUncalibrated is returned when the sensor has not finished its
	// calibration; the reply is discarded.
	ErrUncalibrated = errors.New("aht10: not calibrated yet")
)

// Sleeper blocks for the given duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(time.Duration)

// Sleep calls f(d).
func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// Status is the first byte of a measurement reply.
type Status byte

// Busy reports a conversion in progress.
func (s Status) Busy() bool { return s&statusBusy != 0 }

// Mode returns the two mode bits: 0 normal, 1 cycle, 2 and 3 command.
func (s Status) Mode() byte { return byte(s&statusMode) >> 5 }

// Calibrated reports whether the calibration coefficients are loaded.
func (s Status) Calibrated() bool { return s&statusCalibrated != 0 }

// Reading is one decoded measurement.
type Reading struct {
	Temperature float32 // °C
	Humidity    float32 // %RH
}

// Device wraps an I²C connection to an AHT10.
type Device struct {
	bus   drivers.I2C
	sleep Sleeper
	buf   [6]byte
}

// New returns a Device on bus. A nil sleep uses time.Sleep.
// Nothing is sent to the sensor until Init.
//
// Both a periph.io i2c.Bus and a TinyGo machine.I2C satisfy drivers.I2C.
func New(bus drivers.I2C, sleep Sleeper) *Device {
	if sleep == nil {
		sleep = SleepFunc(time.Sleep)
	}
	return &Device{bus: bus, sleep: sleep}
}

// Init sends the initialization command and waits for the sensor to settle.
// Measure must not be used after a failed Init.
func (d *Device) Init() error {
	if err := d.bus.Tx(Address, cmdInit, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	d.sleep.Sleep(initDelay)
	return nil
}

// Measure triggers a conversion, waits for it and returns the decoded reading.
func (d *Device) Measure() (Reading, error) {
	if err := d.bus.Tx(Address, cmdMeasure, nil); err != nil {
		return Reading{}, fmt.Errorf("%w: %w", ErrMeasure, err)
	}
	d.sleep.Sleep(measureDelay)

	if err := d.bus.Tx(Address, nil, d.buf[:]); err != nil {
		return Reading{}, fmt.Errorf("%w: %w", ErrMeasure, err)
	}
	return Decode(d.buf)
}

// Decode converts a raw 6-byte reply. Humidity is the top 20 bits of bytes
// 1-3 and temperature the bottom 20 bits of bytes 3-5; both are scaled once,
// in floating point, at the end.
func Decode(buf [6]byte) (Reading, error) {
	if !Status(buf[0]).Calibrated() {
		return Reading{}, ErrUncalibrated
	}

	hraw := uint32(buf[1])<<12 | uint32(buf[2])<<4 | uint32(buf[3])>>4
	traw := uint32(buf[3]&0x0F)<<16 | uint32(buf[4])<<8 | uint32(buf[5])

	return Reading{
		Humidity:    100 * float32(hraw) / (1 << 20),
		Temperature: 200*float32(traw)/(1<<20) - 50,
	}, nil
}

func (r Reading) String() string {
	return fmt.Sprintf("%.1f°C %.1f%%RH", r.Temperature, r.Humidity)
}
