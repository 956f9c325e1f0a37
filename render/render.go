// Package render turns clock and sensor values into pixel predicates for a
// 32×8 matrix canvas.
//
// Each predicate places glyphs in fixed column bands. A band [lo, hi] shows
// glyph column hi-x at canvas column x, so the glyph's bit 0 lands on hi.
// Columns outside every band are dark. Digits are always picked modulo 10;
// values are never validated beyond that.
package render

import (
	"math"

	"github.com/flavioheleno/matrixclock/aht10"
	"github.com/flavioheleno/matrixclock/glyph"
)

// Band is a glyph placed between two inclusive canvas columns.
type Band struct {
	Lo, Hi int
	Glyph  glyph.Glyph
}

func (b Band) pixel(x, y int) (byte, bool) {
	if x < b.Lo || x > b.Hi {
		return 0, false
	}
	return b.Glyph[y] & (1 << (b.Hi - x)), true
}

// Layout composes bands into a predicate. The first band containing x wins.
func Layout(bands ...Band) func(x, y int) byte {
	return func(x, y int) byte {
		if y < 0 || y >= 8 {
			return 0
		}
		for _, b := range bands {
			if v, ok := b.pixel(x, y); ok {
				return v
			}
		}
		return 0
	}
}

// Clock shows hours and minutes as four digits at [1,6] [8,13] [18,23]
// [25,30]. The colon at [15,16] is drawn only when dots is set; toggling it
// every half second makes it blink.
func Clock(s *glyph.Set, hours, minutes int, dots bool) func(x, y int) byte {
	bands := []Band{
		{1, 6, s.Digit(hours / 10)},
		{8, 13, s.Digit(hours % 10)},
		{18, 23, s.Digit(minutes / 10)},
		{25, 30, s.Digit(minutes % 10)},
	}
	if dots {
		bands = append(bands, Band{15, 16, s.Colon})
	}
	return Layout(bands...)
}

// Temperature shows celsius with one decimal, as two digits, a dot and a
// third digit, then the unit: [1,6] [8,13] [15,16] [18,23] [25,30].
// Values below zero render as 00.0.
func Temperature(s *glyph.Set, celsius float32) func(x, y int) byte {
	t := Tenths(celsius)
	return Layout(
		Band{1, 6, s.Digit(t / 100)},
		Band{8, 13, s.Digit(t % 100 / 10)},
		Band{15, 16, s.Dot},
		Band{18, 23, s.Digit(t % 10)},
		Band{25, 30, s.Celsius},
	)
}

// Humidity shows the integer part of percent as two digits after the
// humidity icon: icon [1,7], digits [10,15] [17,22], percent sign [24,29].
func Humidity(s *glyph.Set, percent float32) func(x, y int) byte {
	h := int(saturate(percent, math.MaxUint8))
	return Layout(
		Band{1, 7, s.Humidity},
		Band{10, 15, s.Digit(h / 10)},
		Band{17, 22, s.Digit(h % 10)},
		Band{24, 29, s.Percent},
	)
}

// Quantity selects what a weather frame shows.
type Quantity int

const (
	ShowTemperature Quantity = iota
	ShowHumidity
)

func (q Quantity) String() string {
	switch q {
	case ShowTemperature:
		return "temperature"
	case ShowHumidity:
		return "humidity"
	default:
		return "unknown"
	}
}

// Weather renders one quantity of r.
func Weather(s *glyph.Set, r aht10.Reading, q Quantity) func(x, y int) byte {
	if q == ShowHumidity {
		return Humidity(s, r.Humidity)
	}
	return Temperature(s, r.Temperature)
}

// Tenths returns celsius×10, computed in float32 and truncated toward zero,
// saturated to [0, MaxInt32]. NaN is 0.
func Tenths(celsius float32) int {
	return int(saturate(celsius*10, math.MaxInt32))
}

// saturate truncates v into [0, hi].
func saturate[F float32 | float64](v F, hi float64) float64 {
	f := float64(v)
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= hi:
		return hi
	}
	return math.Trunc(f)
}
