package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	d := c.Display
	if d.GPIODev != "/dev/gpiochip0" || d.DataPin != 85 || d.CSPin != 83 || d.ClkPin != 84 {
		t.Errorf("display wiring = %+v", d)
	}
	if d.NumberOfMatrices != 4 || d.Brightness != 0x0F || d.Slim || d.Backend != BackendCDev || d.SPI != "" {
		t.Errorf("display settings = %+v", d)
	}
	w := c.Weather
	if w.DisplayIntervalSec != 20 || w.HumidityOnDisplayMsec != 1000 || w.TemperatureOnDisplayMsec != 1500 {
		t.Errorf("weather settings = %+v", w)
	}
	if w.Sensor.I2CDev != "/dev/i2c-1" {
		t.Errorf("sensor bus = %q", w.Sensor.I2CDev)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.yaml")
	want := Default()
	want.Display.Slim = true
	want.Display.Backend = BackendRPIO
	want.Display.NumberOfMatrices = 8
	want.Weather.Sensor.I2CDev = "/dev/i2c-0"

	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestSavedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.yaml")
	if err := Default().Save(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"display:", "gpio_dev: /dev/gpiochip0", "data_pin: 85", "cs_pin: 83", "clk_pin: 84",
		"number_of_matrices: 4", "brightness: 15", "slim: false",
		"weather:", "display_interval_sec: 20", "humidity_on_display_msec: 1000",
		"temperature_on_display_msec: 1500", "sensor:", "i2c_dev: /dev/i2c-1",
	} {
		if !strings.Contains(string(b), key) {
			t.Errorf("saved file lacks %q:\n%s", key, b)
		}
	}
	if strings.Contains(string(b), "spi:") {
		t.Errorf("empty spi should be omitted:\n%s", b)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.yaml")
	data := "display:\n  slim: true\n  brightness: 3\nweather:\n  display_interval_sec: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	want.Display.Slim = true
	want.Display.Brightness = 3
	want.Weather.DisplayIntervalSec = 5
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
	if _, err := Load(write("bad.yaml", "display: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
	if _, err := Load(write("type.yaml", "display:\n  data_pin: many\n")); err == nil {
		t.Error("non-numeric pin should fail")
	}
	if _, err := Load(write("backend.yaml", "display:\n  backend: sysfs\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown backend error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"periph backend", func(c *Config) { c.Display.Backend = BackendPeriph }, true},
		{"empty backend", func(c *Config) { c.Display.Backend = "" }, false},
		{"interval zero", func(c *Config) { c.Weather.DisplayIntervalSec = 0 }, true},
		{"interval 255", func(c *Config) { c.Weather.DisplayIntervalSec = 255 }, true},
		{"interval 256", func(c *Config) { c.Weather.DisplayIntervalSec = 256 }, false},
		{"negative interval", func(c *Config) { c.Weather.DisplayIntervalSec = -1 }, false},
		{"negative hold", func(c *Config) { c.Weather.HumidityOnDisplayMsec = -1 }, false},
		// Module count is the display driver's call.
		{"zero modules", func(c *Config) { c.Display.NumberOfMatrices = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestHolds(t *testing.T) {
	w := Default().Weather
	if got := w.HumidityHold(); got != time.Second {
		t.Errorf("HumidityHold() = %v, want 1s", got)
	}
	if got := w.TemperatureHold(); got != 1500*time.Millisecond {
		t.Errorf("TemperatureHold() = %v, want 1.5s", got)
	}
}
