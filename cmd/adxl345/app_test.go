// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"github.com/GermanBionicSystems/accel/internal/config"
	"github.com/GermanBionicSystems/accel/internal/eventlog"
	"github.com/GermanBionicSystems/accel/usersensor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// cancelOn cancels a context once a line containing substr is written.
type cancelOn struct {
	buf    bytes.Buffer
	substr string
	cancel context.CancelFunc
}

func (c *cancelOn) Write(p []byte) (int, error) {
	if strings.Contains(string(p), c.substr) {
		c.cancel()
	}
	return c.buf.Write(p)
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := &cancelOn{substr: "Accelerometer event", cancel: cancel}

	cfg := config.Default()
	cfg.Poll.Interval = time.Millisecond
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := newApp(cfg, logger, log.New(out, "", 0))
	var rec bytes.Buffer
	a.rec = eventlog.NewWriter(&rec)

	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.DeviceID}, R: []byte{adxl345.ChipID}},
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.DataFormat, 0x03}},
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.PowerCtl, 0x08}},
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.DataX0}, R: []byte{0x10, 0x00, 0x20, 0x00, 0x30, 0x00}},
		},
		DontPanic: true,
	}
	dev, err := adxl345.NewI2C(bus, adxl345.I2CAddr, &adxl345.DefaultOpts)
	require.NoError(t, err)
	drv := adxl345.NewDriver(dev, a.reg)

	require.NoError(t, a.run(ctx, drv))
	assert.Equal(t, adxl345.Closed, drv.State())
	assert.Empty(t, a.reg.Sensors())

	lines := strings.Split(strings.TrimSpace(out.buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "Accelerometer sensor connected: "), lines[0])
	assert.Equal(t, "Accelerometer driver registered", lines[1])
	assert.Equal(t, "Accelerometer event: 16, 32, 48", lines[2])
	assert.Equal(t, "Accelerometer sensor disconnected", lines[len(lines)-1])

	got, err := eventlog.ReadAll(&rec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float64{16, 32, 48}, got[0].Values)
	assert.Equal(t, "accelerometer", got[0].Type)
}

func TestRunRejectsBadInterval(t *testing.T) {
	cfg := config.Default()
	cfg.Poll.Interval = 0
	var out bytes.Buffer
	a := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), log.New(&out, "", 0))
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.DeviceID}, R: []byte{adxl345.ChipID}},
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.DataFormat, 0x03}},
			{Addr: adxl345.I2CAddr, W: []byte{adxl345.PowerCtl, 0x08}},
		},
		DontPanic: true,
	}
	dev, err := adxl345.NewI2C(bus, adxl345.I2CAddr, nil)
	require.NoError(t, err)
	drv := adxl345.NewDriver(dev, a.reg)

	assert.Error(t, a.run(context.Background(), drv))
	assert.Equal(t, adxl345.Closed, drv.State())
	assert.Empty(t, a.reg.Sensors())
}

func TestIgnoresOtherSensorTypes(t *testing.T) {
	var out bytes.Buffer
	a := newApp(config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)), log.New(&out, "", 0))
	s := &usersensor.Sensor{Type: usersensor.Gyroscope, Name: "g", UUID: uuid.New(), Driver: nopDriver{}}
	require.NoError(t, a.reg.RegisterSensor(s))
	require.NoError(t, a.reg.UnregisterSensor(s))
	assert.Empty(t, out.String())
}

type nopDriver struct{}

func (nopDriver) Read() (usersensor.Reading, error) { return usersensor.Reading{}, nil }
func (nopDriver) SetEnabled(bool) error              { return nil }

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "16, -32, 0.5", formatValues([]float64{16, -32, 0.5}))
	assert.Equal(t, "", formatValues(nil))
}
