// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/internal/axisbar"
	"github.com/GermanBionicSystems/accel/internal/config"
	"github.com/GermanBionicSystems/accel/internal/eventlog"
	"github.com/GermanBionicSystems/accel/usersensor"
)

// app is the host side: it owns the sensor registry and listens to every
// accelerometer registered in it.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	events *log.Logger
	reg    *usersensor.Registry
	rec    *eventlog.Writer
	bars   *axisbar.Dev

	mu      sync.Mutex
	cancels []func()
}

func newApp(cfg config.Config, logger *slog.Logger, events *log.Logger) *app {
	a := &app{
		cfg:    cfg,
		logger: logger,
		events: events,
		reg:    usersensor.NewRegistry(logger),
	}
	a.reg.OnDynamicSensor(a.onDynamicSensor)
	return a
}

func (a *app) onDynamicSensor(s *usersensor.Sensor, connected bool) {
	if s.Type != usersensor.Accelerometer {
		return
	}
	if !connected {
		a.events.Printf("Accelerometer sensor disconnected")
		return
	}
	a.events.Printf("Accelerometer sensor connected: %s", s)
	cancel, err := a.reg.Subscribe(s.UUID, a.onEvent)
	if err != nil {
		a.logger.Error("subscribe failed", "sensor", s.String(), "err", err)
		return
	}
	a.mu.Lock()
	a.cancels = append(a.cancels, cancel)
	a.mu.Unlock()
}

func (a *app) onEvent(e usersensor.Event) {
	if a.rec != nil {
		if err := a.rec.Write(eventlog.FromEvent(e)); err != nil {
			a.logger.Warn("recording event failed", "err", err)
		}
	}
	if a.bars != nil {
		if err := a.bars.Draw(e.Values...); err != nil {
			a.logger.Warn("drawing bars failed", "err", err)
		}
		return
	}
	a.events.Printf("Accelerometer event: %s", formatValues(e.Values))
}

func (a *app) unsubscribe() {
	a.mu.Lock()
	cancels := a.cancels
	a.cancels = nil
	a.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

// run registers drv, polls it until ctx is done, then detaches the listeners,
// unregisters and closes drv, in that order.
func (a *app) run(ctx context.Context, drv *adxl345.Driver) error {
	if !drv.Identify() {
		a.logger.Warn("device did not identify as an ADXL345", "dev", drv.Dev().String())
	}
	if err := drv.Register(); err != nil {
		return errors.Join(err, drv.Close())
	}
	a.events.Printf("Accelerometer driver registered")

	err := a.reg.Run(ctx, a.cfg.Poll.Interval)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	a.unsubscribe()
	return errors.Join(err, drv.Unregister(), drv.Close())
}

func formatValues(v []float64) string {
	s := make([]string, len(v))
	for i := range v {
		s[i] = strconv.FormatFloat(v[i], 'g', -1, 64)
	}
	return strings.Join(s, ", ")
}
