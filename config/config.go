// Package config holds the clock settings and their YAML form.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Line backends understood by Display.Backend.
const (
	BackendCDev   = "cdev"
	BackendPeriph = "periph"
	BackendRPIO   = "rpio"
)

// ErrInvalid is returned by Validate for a record the clock cannot run with.
var ErrInvalid = errors.New("config: invalid")

// Config is the whole settings file.
type Config struct {
	Display Display `yaml:"display"`
	Weather Weather `yaml:"weather"`
}

// Display describes the matrix chain and how it is wired.
type Display struct {
	GPIODev          string `yaml:"gpio_dev"`
	Backend          string `yaml:"backend"`
	SPI              string `yaml:"spi,omitempty"`
	DataPin          int    `yaml:"data_pin"`
	CSPin            int    `yaml:"cs_pin"`
	ClkPin           int    `yaml:"clk_pin"`
	NumberOfMatrices int    `yaml:"number_of_matrices"`
	Brightness       uint8  `yaml:"brightness"`
	Slim             bool   `yaml:"slim"`
}

// Weather controls how often and how long sensor values are shown.
type Weather struct {
	DisplayIntervalSec       int    `yaml:"display_interval_sec"`
	HumidityOnDisplayMsec    int    `yaml:"humidity_on_display_msec"`
	TemperatureOnDisplayMsec int    `yaml:"temperature_on_display_msec"`
	Sensor                   Sensor `yaml:"sensor"`
}

// Sensor names the bus the AHT10 sits on.
type Sensor struct {
	I2CDev string `yaml:"i2c_dev"`
}

// Default returns the settings for a 4-module chain on an Orange Pi style
// header: MOSI 85, CS 83, SCK 84.
func Default() *Config {
	return &Config{
		Display: Display{
			GPIODev:          "/dev/gpiochip0",
			Backend:          BackendCDev,
			DataPin:          85,
			CSPin:            83,
			ClkPin:           84,
			NumberOfMatrices: 4,
			Brightness:       0x0F,
		},
		Weather: Weather{
			DisplayIntervalSec:       20,
			HumidityOnDisplayMsec:    1000,
			TemperatureOnDisplayMsec: 1500,
			Sensor:                   Sensor{I2CDev: "/dev/i2c-1"},
		},
	}
}

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks the fields the drivers cannot check themselves. The
// module count and brightness are left to the display driver.
func (c *Config) Validate() error {
	switch c.Display.Backend {
	case BackendCDev, BackendPeriph, BackendRPIO:
	default:
		return fmt.Errorf("%w: unknown display.backend %q", ErrInvalid, c.Display.Backend)
	}
	if c.Weather.DisplayIntervalSec < 0 || c.Weather.DisplayIntervalSec > 255 {
		return fmt.Errorf("%w: weather.display_interval_sec %d out of [0,255]", ErrInvalid, c.Weather.DisplayIntervalSec)
	}
	if c.Weather.HumidityOnDisplayMsec < 0 || c.Weather.TemperatureOnDisplayMsec < 0 {
		return fmt.Errorf("%w: negative hold time", ErrInvalid)
	}
	return nil
}

// HumidityHold is how long a humidity frame stays up.
func (w Weather) HumidityHold() time.Duration {
	return time.Duration(w.HumidityOnDisplayMsec) * time.Millisecond
}

// TemperatureHold is how long a temperature frame stays up.
func (w Weather) TemperatureHold() time.Duration {
	return time.Duration(w.TemperatureOnDisplayMsec) * time.Millisecond
}
