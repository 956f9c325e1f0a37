// Package scheduler runs the clock: a blinking time display, interrupted on
// a fixed cadence by a temperature frame and a humidity frame.
//
// Every Step is strictly sequential. A weather phase draws temperature and
// humidity, each from a fresh measurement, and holds each for its configured
// time. A clock phase draws the time with the colon lit, waits 500ms, draws it
// again without the colon and waits another 500ms; the time is read for each
// draw. After every clock phase the weather counter goes up by one; once it
// reaches the configured interval the next Step is a weather phase.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/flavioheleno/matrixclock/aht10"
	"github.com/flavioheleno/matrixclock/glyph"
	"github.com/flavioheleno/matrixclock/internal/log"
	"github.com/flavioheleno/matrixclock/max7219"
	"github.com/flavioheleno/matrixclock/render"
)

// blink is how long each half of the colon cycle stays up.
const blink = 500 * time.Millisecond

// Display presents one frame.
type Display interface {
	DrawFunc(fn max7219.PixelFunc) error
}

// Sensor takes one measurement.
type Sensor interface {
	Measure() (aht10.Reading, error)
}

// Clock supplies wall time and blocking waits.
type Clock interface {
	Now() time.Time
	// Sleep waits for d, returning early with ctx.Err() when ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Opts configures the cadence.
type Opts struct {
	// Interval is the number of clock phases between weather phases.
	Interval int
	// TemperatureHold and HumidityHold keep each weather frame visible.
	TemperatureHold time.Duration
	HumidityHold    time.Duration
	// Slim selects the thin font.
	Slim bool
}

// Scheduler owns the display and sensor for the life of the loop.
type Scheduler struct {
	display Display
	sensor  Sensor
	clock   Clock
	opts    Opts
	glyphs  *glyph.Set
	counter int
}

// New returns a Scheduler. A nil clock uses the system clock.
func New(d Display, s Sensor, c Clock, opts *Opts) *Scheduler {
	if c == nil {
		c = System{}
	}
	return &Scheduler{
		display: d,
		sensor:  s,
		clock:   c,
		opts:    *opts,
		glyphs:  glyph.For(opts.Slim),
	}
}

// Counter returns the number of clock phases since the last weather phase.
func (s *Scheduler) Counter() int {
	return s.counter
}

// Run calls Step until it fails. Cancelling ctx stops the loop at the next
// wait and leaves the last frame on the display.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one iteration of the loop: a weather phase when the counter has
// reached the interval, a clock phase otherwise.
func (s *Scheduler) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.counter >= s.opts.Interval {
		s.counter = 0
		return s.weather(ctx)
	}
	s.counter++
	return s.clockPhase(ctx)
}

func (s *Scheduler) weather(ctx context.Context) error {
	l := log.FromContext(ctx)
	l.Debug("weather phase")
	phases := []struct {
		q    render.Quantity
		hold time.Duration
	}{
		{render.ShowTemperature, s.opts.TemperatureHold},
		{render.ShowHumidity, s.opts.HumidityHold},
	}
	for _, p := range phases {
		r, err := s.sensor.Measure()
		if err != nil {
			return &Error{Stage: StageMeasure, Err: err}
		}
		l.Debug("measured",
			zap.Stringer("show", p.q),
			zap.Float32("temperature", r.Temperature),
			zap.Float32("humidity", r.Humidity))
		if err := s.display.DrawFunc(render.Weather(s.glyphs, r, p.q)); err != nil {
			return &Error{Stage: StageDraw, Err: err}
		}
		if err := s.clock.Sleep(ctx, p.hold); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) clockPhase(ctx context.Context) error {
	for _, dots := range []bool{true, false} {
		now := s.clock.Now()
		if err := s.display.DrawFunc(render.Clock(s.glyphs, now.Hour(), now.Minute(), dots)); err != nil {
			return &Error{Stage: StageDraw, Err: err}
		}
		if err := s.clock.Sleep(ctx, blink); err != nil {
			return err
		}
	}
	return nil
}

// Stage names the part of the program that failed.
type Stage string

const (
	StageDisplay    Stage = "display"
	StageSensorInit Stage = "sensor-init"
	StageMeasure    Stage = "measure"
	StageDraw       Stage = "draw"
)

// Error is a failure tagged with the stage it happened in.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or "" when err carries none.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// System is the wall clock.
type System struct{}

// Now returns the local time.
func (System) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is done.
func (System) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
