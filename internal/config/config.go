// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML configuration of cmd/adxl345.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Poll    PollConfig    `yaml:"poll"`
	Record  RecordConfig  `yaml:"record"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

type SensorConfig struct {
	// Transport is "i2c" or "spi".
	Transport string `yaml:"transport"`
	// Bus is the i2creg or spireg name; empty picks the first one.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	// Range is one of 2g, 4g, 8g, 16g.
	Range string `yaml:"range"`
	// Wakeup is one of 1hz, 2hz, 4hz, 8hz.
	Wakeup  string `yaml:"wakeup"`
	Name    string `yaml:"name"`
	Vendor  string `yaml:"vendor"`
	Version int    `yaml:"version"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type DisplayConfig struct {
	Bars bool `yaml:"bars"`
	// Width is the number of cells of a full scale bar.
	Width int `yaml:"width"`
}

type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes and validates a YAML document. Missing values take their
// defaults.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := adxl345.DefaultOpts
	if c.Sensor.Transport == "" {
		c.Sensor.Transport = "i2c"
	}
	if c.Sensor.Address == 0 {
		c.Sensor.Address = adxl345.I2CAddr
	}
	if c.Sensor.Range == "" {
		c.Sensor.Range = "16g"
	}
	if c.Sensor.Wakeup == "" {
		c.Sensor.Wakeup = "8hz"
	}
	if c.Sensor.Name == "" {
		c.Sensor.Name = d.Name
	}
	if c.Sensor.Vendor == "" {
		c.Sensor.Vendor = d.Vendor
	}
	if c.Sensor.Version == 0 {
		c.Sensor.Version = d.Version
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 100 * time.Millisecond
	}
	if c.Display.Width <= 0 {
		c.Display.Width = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Sensor.Transport {
	case "i2c":
		if c.Sensor.Address > 0x7F {
			return fmt.Errorf("sensor.address 0x%X is not a 7 bit address", c.Sensor.Address)
		}
	case "spi":
	default:
		return fmt.Errorf("sensor.transport must be i2c or spi, got %q", c.Sensor.Transport)
	}
	if _, err := c.Sensor.Sensitivity(); err != nil {
		return err
	}
	if _, err := c.Sensor.WakeupRate(); err != nil {
		return err
	}
	if c.Record.Enable && c.Record.Path == "" {
		return fmt.Errorf("record.path is required when record.enable is true")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Sensitivity parses Range.
func (s SensorConfig) Sensitivity() (adxl345.Sensitivity, error) {
	switch strings.ToLower(s.Range) {
	case "2g":
		return adxl345.S2G, nil
	case "4g":
		return adxl345.S4G, nil
	case "8g":
		return adxl345.S8G, nil
	case "16g":
		return adxl345.S16G, nil
	}
	return 0, fmt.Errorf("sensor.range must be one of 2g, 4g, 8g, 16g, got %q", s.Range)
}

// WakeupRate parses Wakeup.
func (s SensorConfig) WakeupRate() (adxl345.WakeupRate, error) {
	switch strings.ToLower(s.Wakeup) {
	case "8hz":
		return adxl345.Wakeup8Hz, nil
	case "4hz":
		return adxl345.Wakeup4Hz, nil
	case "2hz":
		return adxl345.Wakeup2Hz, nil
	case "1hz":
		return adxl345.Wakeup1Hz, nil
	}
	return 0, fmt.Errorf("sensor.wakeup must be one of 1hz, 2hz, 4hz, 8hz, got %q", s.Wakeup)
}

// Opts returns the driver options. The config must have been validated.
func (s SensorConfig) Opts(logger *slog.Logger, onError func(op string, err error)) *adxl345.Opts {
	o := adxl345.DefaultOpts
	o.Sensitivity, _ = s.Sensitivity()
	o.Wakeup, _ = s.WakeupRate()
	o.Name = s.Name
	o.Vendor = s.Vendor
	o.Version = s.Version
	o.Logger = logger
	o.OnError = onError
	return &o
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
