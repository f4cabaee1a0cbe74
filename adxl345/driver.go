// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/accel/usersensor"
	"github.com/google/uuid"
)

// State is the lifecycle state of a Driver.
type State int

const (
	// Unconnected is the state before construction; a Driver is never in it.
	Unconnected State = iota
	Connected
	Enabled
	Disabled
	Closed
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connected:
		return "connected"
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Driver exposes a Dev to a sensor framework as an accelerometer.
//
// Driver implements usersensor.Driver and hands itself to the Manager on
// Register. The Manager's reference is dropped on Unregister, which Close
// always does before releasing the device.
type Driver struct {
	mu     sync.Mutex
	dev    *Dev
	m      usersensor.Manager
	sensor *usersensor.Sensor
	state  State
}

// OpenDriver connects to the ADXL345 at I2CAddr on busName. It is the usual
// way to build a Driver.
func OpenDriver(busName string, m usersensor.Manager, o *Opts) (*Driver, error) {
	d, err := New(busName, o)
	if err != nil {
		return nil, err
	}
	return NewDriver(d, m), nil
}

// NewDriver wraps d, which the Driver then owns. m may be nil when the driver
// is never registered.
func NewDriver(d *Dev, m usersensor.Manager) *Driver {
	return &Driver{dev: d, m: m, state: Connected}
}

func (d *Driver) String() string {
	return fmt.Sprintf("%s(%s)", d.dev, d.State())
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dev returns the underlying device.
func (d *Driver) Dev() *Dev {
	return d.dev
}

// Sensor returns the registration token, or nil when not registered.
func (d *Driver) Sensor() *usersensor.Sensor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sensor
}

// Identify reports whether the device answers with the expected chip ID.
func (d *Driver) Identify() bool {
	return d.dev.Identify()
}

// Read implements usersensor.Driver.
func (d *Driver) Read() (usersensor.Reading, error) {
	s, err := d.ReadSample()
	if err != nil {
		return usersensor.Reading{}, err
	}
	return usersensor.Reading{Values: s.Values()}, nil
}

// ReadSample reads one sample. It fails with ErrNotConnected after Close.
func (d *Driver) ReadSample() (Sample, error) {
	return d.dev.ReadSample()
}

// SetEnabled implements usersensor.Driver.
//
// Enabling configures the data format then turns measurement on. Disabling
// only records the state: the device keeps measuring.
func (d *Driver) SetEnabled(enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Closed || d.dev.closed() {
		return ErrNotConnected
	}
	if !enabled {
		d.state = Disabled
		d.dev.logger.Debug("adxl345: disabled, device left powered")
		return nil
	}
	d.dev.Configure()
	d.dev.PowerOn()
	d.state = Enabled
	return nil
}

// Register hands the driver to the Manager as an accelerometer with a fresh
// UUID. It is a no-op when already registered.
func (d *Driver) Register() error {
	d.mu.Lock()
	if d.state == Closed || d.dev.closed() {
		d.mu.Unlock()
		return fmt.Errorf("%w: cannot register a closed driver", ErrIllegalState)
	}
	if d.m == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: no sensor manager", ErrIllegalState)
	}
	if d.sensor != nil {
		d.mu.Unlock()
		return nil
	}
	s := &usersensor.Sensor{
		Type:    usersensor.Accelerometer,
		Name:    d.dev.opts.Name,
		Vendor:  d.dev.opts.Vendor,
		Version: d.dev.opts.Version,
		UUID:    uuid.New(),
		Driver:  d,
	}
	d.sensor = s
	d.mu.Unlock()

	// The manager may call back into the driver; no lock is held.
	if err := d.m.RegisterSensor(s); err != nil {
		d.mu.Lock()
		if d.sensor == s {
			d.sensor = nil
		}
		d.mu.Unlock()
		return fmt.Errorf("adxl345: register: %w", err)
	}
	d.dev.logger.Debug("adxl345: registered", "sensor", s.String())
	return nil
}

// Unregister removes the driver from the Manager. It is a no-op when not
// registered.
func (d *Driver) Unregister() error {
	d.mu.Lock()
	s := d.sensor
	d.sensor = nil
	d.mu.Unlock()
	if s == nil {
		return nil
	}
	if err := d.m.UnregisterSensor(s); err != nil {
		return fmt.Errorf("adxl345: unregister: %w", err)
	}
	d.dev.logger.Debug("adxl345: unregistered", "sensor", s.String())
	return nil
}

// Close unregisters the driver then closes the device. Calling Close again
// is a no-op.
func (d *Driver) Close() error {
	uerr := d.Unregister()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Closed {
		return uerr
	}
	d.state = Closed
	return errors.Join(uerr, d.dev.Close())
}

var _ usersensor.Driver = &Driver{}
