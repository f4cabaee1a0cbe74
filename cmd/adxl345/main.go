// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// adxl345 registers an ADXL345 accelerometer with an in-process sensor
// registry and logs every reading until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/internal/axisbar"
	"github.com/GermanBionicSystems/accel/internal/config"
	"github.com/GermanBionicSystems/accel/internal/eventlog"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML configuration file")
	bus := flag.String("bus", "", "I²C bus or SPI port name, overrides sensor.bus")
	useSPI := flag.Bool("spi", false, "use SPI instead of I²C")
	interval := flag.Duration("interval", 0, "poll interval, overrides poll.interval")
	record := flag.String("record", "", "append events to this CBOR file")
	dump := flag.String("dump", "", "print the events recorded in this CBOR file and exit")
	bars := flag.Bool("bars", false, "draw live axis bars instead of logging each event")
	verbose := flag.Bool("v", false, "verbose driver logging")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if *dump != "" {
		return dumpFile(*dump)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *bus != "" {
		cfg.Sensor.Bus = *bus
	}
	if *useSPI {
		cfg.Sensor.Transport = "spi"
	}
	if *interval > 0 {
		cfg.Poll.Interval = *interval
	}
	if *record != "" {
		cfg.Record = config.RecordConfig{Enable: true, Path: *record}
	}
	if *bars {
		cfg.Display.Bars = true
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	if _, err := host.Init(); err != nil {
		return err
	}

	a := newApp(cfg, logger, log.Default())
	if cfg.Record.Enable {
		w, err := eventlog.Create(cfg.Record.Path)
		if err != nil {
			return err
		}
		defer w.Close()
		a.rec = w
	}
	if cfg.Display.Bars {
		b, err := axisbar.New(&axisbar.Opts{Width: cfg.Display.Width, FullScale: 512})
		if err != nil {
			return err
		}
		defer b.Halt()
		a.bars = b
	}

	dev, err := openDev(cfg, logger)
	if err != nil {
		return err
	}
	drv := adxl345.NewDriver(dev, a.reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx, drv)
}

// openDev opens the bus named in cfg and connects to the accelerometer.
func openDev(cfg config.Config, logger *slog.Logger) (*adxl345.Dev, error) {
	o := cfg.Sensor.Opts(logger, nil)
	if cfg.Sensor.Transport == "spi" {
		p, err := spireg.Open(cfg.Sensor.Bus)
		if err != nil {
			return nil, &adxl345.ConnectError{Bus: cfg.Sensor.Bus, Err: err}
		}
		d, err := adxl345.NewSPI(p, o)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		return d, nil
	}
	if cfg.Sensor.Address == adxl345.I2CAddr {
		return adxl345.New(cfg.Sensor.Bus, o)
	}
	b, err := i2creg.Open(cfg.Sensor.Bus)
	if err != nil {
		return nil, &adxl345.ConnectError{Bus: cfg.Sensor.Bus, Err: err}
	}
	d, err := adxl345.NewI2C(b, cfg.Sensor.Address, o)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return d, nil
}

func dumpFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rd := eventlog.NewReader(f)
	for {
		r, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		fmt.Printf("%s %s %s %v\n", r.Timestamp.Format(time.RFC3339Nano), r.Type, r.SensorID, r.Values)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "adxl345: %s.\n", err)
		os.Exit(1)
	}
}
