package scheduler

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/flavioheleno/matrixclock/aht10"
	"github.com/flavioheleno/matrixclock/glyph"
	"github.com/flavioheleno/matrixclock/max7219"
	"github.com/flavioheleno/matrixclock/render"
)

type frame [32][8]byte

func snapshot(fn func(x, y int) byte) frame {
	var f frame
	for x := range f {
		for y := range f[x] {
			f[x][y] = fn(x, y)
		}
	}
	return f
}

type fakeDisplay struct {
	frames []frame
	err    error
}

func (d *fakeDisplay) DrawFunc(fn max7219.PixelFunc) error {
	if d.err != nil {
		return d.err
	}
	d.frames = append(d.frames, snapshot(fn))
	return nil
}

type fakeSensor struct {
	reading aht10.Reading
	err     error
	calls   int
}

func (s *fakeSensor) Measure() (aht10.Reading, error) {
	s.calls++
	return s.reading, s.err
}

// fakeClock returns times in order (repeating the last one) and records
// sleeps. After cancelAfter sleeps it cancels the context.
type fakeClock struct {
	times       []time.Time
	sleeps      []time.Duration
	cancel      context.CancelFunc
	cancelAfter int
}

func (c *fakeClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if c.cancel != nil && len(c.sleeps) >= c.cancelAfter {
		c.cancel()
	}
	return ctx.Err()
}

func at(h, m int) time.Time {
	return time.Date(2024, 3, 1, h, m, 0, 0, time.Local)
}

func defaultOpts() *Opts {
	return &Opts{Interval: 20, TemperatureHold: 1500 * time.Millisecond, HumidityHold: time.Second}
}

func TestClockPhase(t *testing.T) {
	d := &fakeDisplay{}
	s := &fakeSensor{}
	c := &fakeClock{times: []time.Time{at(12, 34)}}
	sch := New(d, s, c, defaultOpts())

	if err := sch.Step(context.Background()); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if len(d.frames) != 2 {
		t.Fatalf("drew %d frames, want 2", len(d.frames))
	}
	if d.frames[0] != snapshot(render.Clock(&glyph.Normal, 12, 34, true)) {
		t.Error("first frame is not 12:34 with colon")
	}
	if d.frames[1] != snapshot(render.Clock(&glyph.Normal, 12, 34, false)) {
		t.Error("second frame is not 12:34 without colon")
	}
	if want := []time.Duration{blink, blink}; !slices.Equal(c.sleeps, want) {
		t.Errorf("sleeps = %v, want %v", c.sleeps, want)
	}
	if s.calls != 0 {
		t.Errorf("sensor measured %d times during a clock phase", s.calls)
	}
	if sch.Counter() != 1 {
		t.Errorf("Counter() = %d, want 1", sch.Counter())
	}
}

func TestClockReadsTimePerDraw(t *testing.T) {
	d := &fakeDisplay{}
	c := &fakeClock{times: []time.Time{at(12, 59), at(13, 0)}}
	sch := New(d, &fakeSensor{}, c, defaultOpts())

	if err := sch.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d.frames[0] != snapshot(render.Clock(&glyph.Normal, 12, 59, true)) {
		t.Error("first frame is not 12:59")
	}
	if d.frames[1] != snapshot(render.Clock(&glyph.Normal, 13, 0, false)) {
		t.Error("second frame is not 13:00")
	}
}

func TestWeatherPhase(t *testing.T) {
	d := &fakeDisplay{}
	r := aht10.Reading{Temperature: 21.4, Humidity: 45}
	s := &fakeSensor{reading: r}
	c := &fakeClock{times: []time.Time{at(0, 0)}}
	opts := defaultOpts()
	opts.Interval = 0
	opts.Slim = true
	sch := New(d, s, c, opts)

	if err := sch.Step(context.Background()); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.calls != 2 {
		t.Errorf("measured %d times, want 2", s.calls)
	}
	if len(d.frames) != 2 {
		t.Fatalf("drew %d frames, want 2", len(d.frames))
	}
	if d.frames[0] != snapshot(render.Temperature(&glyph.Slim, 21.4)) {
		t.Error("first frame is not the temperature")
	}
	if d.frames[1] != snapshot(render.Humidity(&glyph.Slim, 45)) {
		t.Error("second frame is not the humidity")
	}
	if want := []time.Duration{1500 * time.Millisecond, time.Second}; !slices.Equal(c.sleeps, want) {
		t.Errorf("sleeps = %v, want %v", c.sleeps, want)
	}
	if sch.Counter() != 0 {
		t.Errorf("Counter() = %d, want 0", sch.Counter())
	}
}

func TestCadence(t *testing.T) {
	d := &fakeDisplay{}
	s := &fakeSensor{}
	c := &fakeClock{times: []time.Time{at(8, 15)}}
	opts := defaultOpts()
	opts.Interval = 3
	sch := New(d, s, c, opts)

	// Three clock phases, one weather phase, repeated.
	wantCalls := []int{0, 0, 0, 2, 2, 2, 2, 4}
	wantCounter := []int{1, 2, 3, 0, 1, 2, 3, 0}
	for i := range wantCalls {
		if err := sch.Step(context.Background()); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if s.calls != wantCalls[i] {
			t.Errorf("step %d: %d measurements, want %d", i, s.calls, wantCalls[i])
		}
		if sch.Counter() != wantCounter[i] {
			t.Errorf("step %d: counter %d, want %d", i, sch.Counter(), wantCounter[i])
		}
	}
	if len(d.frames) != 16 {
		t.Errorf("drew %d frames, want 16", len(d.frames))
	}
}

func TestStartAtThreshold(t *testing.T) {
	s := &fakeSensor{}
	opts := defaultOpts()
	opts.Interval = 0
	sch := New(&fakeDisplay{}, s, &fakeClock{times: []time.Time{at(0, 0)}}, opts)

	// Interval zero: every Step is a weather phase.
	for i := 1; i <= 3; i++ {
		if err := sch.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
		if s.calls != 2*i {
			t.Errorf("after %d steps: %d measurements, want %d", i, s.calls, 2*i)
		}
	}
}

func TestStepErrors(t *testing.T) {
	busErr := errors.New("bus down")
	tests := []struct {
		name     string
		interval int
		display  *fakeDisplay
		sensor   *fakeSensor
		stage    Stage
	}{
		{"measure", 0, &fakeDisplay{}, &fakeSensor{err: busErr}, StageMeasure},
		{"weather draw", 0, &fakeDisplay{err: busErr}, &fakeSensor{}, StageDraw},
		{"clock draw", 5, &fakeDisplay{err: busErr}, &fakeSensor{}, StageDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClock{times: []time.Time{at(1, 2)}}
			opts := defaultOpts()
			opts.Interval = tt.interval
			err := New(tt.display, tt.sensor, c, opts).Step(context.Background())

			if StageOf(err) != tt.stage {
				t.Errorf("stage = %q, want %q (err %v)", StageOf(err), tt.stage, err)
			}
			if !errors.Is(err, busErr) {
				t.Errorf("error %v does not wrap the cause", err)
			}
			if len(c.sleeps) != 0 {
				t.Errorf("slept %v after a failure", c.sleeps)
			}
			if len(tt.display.frames) != 0 {
				t.Errorf("drew %d frames after a failure", len(tt.display.frames))
			}
		})
	}
}

func TestUncalibratedIsMeasureStage(t *testing.T) {
	opts := defaultOpts()
	opts.Interval = 0
	s := &fakeSensor{err: aht10.ErrUncalibrated}
	err := New(&fakeDisplay{}, s, &fakeClock{times: []time.Time{at(0, 0)}}, opts).Step(context.Background())
	if StageOf(err) != StageMeasure || !errors.Is(err, aht10.ErrUncalibrated) {
		t.Errorf("err = %v, want measure stage wrapping ErrUncalibrated", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := &fakeDisplay{}
	c := &fakeClock{times: []time.Time{at(9, 9)}, cancel: cancel, cancelAfter: 5}

	err := New(d, &fakeSensor{}, c, defaultOpts()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if StageOf(err) != "" {
		t.Errorf("cancellation tagged with stage %q", StageOf(err))
	}
	if len(d.frames) != 5 {
		t.Errorf("drew %d frames before stopping, want 5", len(d.frames))
	}
}

func TestStepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &fakeDisplay{}
	if err := New(d, &fakeSensor{}, &fakeClock{times: []time.Time{at(0, 0)}}, defaultOpts()).Step(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Step() = %v, want context.Canceled", err)
	}
	if len(d.frames) != 0 {
		t.Error("drew a frame with a cancelled context")
	}
}

func TestSystemSleep(t *testing.T) {
	if err := (System{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Sleep() = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := (System{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep(cancelled) = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep ignored cancellation")
	}
}

func TestNewDefaultClock(t *testing.T) {
	sch := New(&fakeDisplay{}, &fakeSensor{}, nil, defaultOpts())
	if _, ok := sch.clock.(System); !ok {
		t.Errorf("default clock is %T, want System", sch.clock)
	}
}

func TestError(t *testing.T) {
	err := &Error{Stage: StageSensorInit, Err: aht10.ErrInit}
	if got, want := err.Error(), "sensor-init: aht10: init error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, aht10.ErrInit) {
		t.Error("Error does not unwrap")
	}
	if StageOf(errors.New("plain")) != "" {
		t.Error("plain error has a stage")
	}
}
