// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usersensor

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of physical quantity a sensor reports.
type Type int

const (
	Unknown Type = iota
	Accelerometer
	Gyroscope
	MagneticField
)

func (t Type) String() string {
	switch t {
	case Accelerometer:
		return "accelerometer"
	case Gyroscope:
		return "gyroscope"
	case MagneticField:
		return "magnetic-field"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Driver is the capability a user space driver hands to the framework.
//
// The framework never calls Read or SetEnabled concurrently for the same
// Driver.
type Driver interface {
	// Read acquires one reading.
	Read() (Reading, error)
	// SetEnabled is called when the first listener attaches (true) and when
	// the last one detaches (false).
	SetEnabled(enabled bool) error
}

// Reading is one sample as reported to the framework.
type Reading struct {
	Values []float64
}

// Sensor describes a registered driver.
//
// The framework holds a non-owning reference to Driver which is only valid
// between RegisterSensor and UnregisterSensor.
type Sensor struct {
	Type    Type
	Name    string
	Vendor  string
	Version int
	UUID    uuid.UUID
	Driver  Driver
}

func (s *Sensor) String() string {
	return fmt.Sprintf("%s{%s/%s v%d %s}", s.Type, s.Vendor, s.Name, s.Version, s.UUID)
}

// Validate reports whether s can be registered.
func (s *Sensor) Validate() error {
	switch {
	case s.Type == Unknown:
		return errors.New("usersensor: sensor type is required")
	case s.Name == "":
		return errors.New("usersensor: sensor name is required")
	case s.UUID == uuid.Nil:
		return errors.New("usersensor: sensor uuid is required")
	case s.Driver == nil:
		return errors.New("usersensor: sensor driver is required")
	}
	return nil
}

// Manager is the sensor framework a driver registers with.
type Manager interface {
	RegisterSensor(s *Sensor) error
	UnregisterSensor(s *Sensor) error
}

// Event is a reading delivered to listeners.
type Event struct {
	Sensor    *Sensor
	Timestamp time.Time
	Values    []float64
}
