// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"encoding/binary"
	"fmt"
)

// Acceleration represents the raw acceleration on the three axes, as read
// from DataX0 to DataZ1.
type Acceleration struct {
	X int16
	Y int16
	Z int16
}

// String returns a string representation of the Acceleration
func (a Acceleration) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z)
}

// DecodeAcceleration decodes the six data registers. Each axis is a little
// endian two's complement 16 bit value: low byte first, then high byte.
func DecodeAcceleration(raw [axisDataLen]byte) Acceleration {
	return Acceleration{
		X: int16(binary.LittleEndian.Uint16(raw[0:2])),
		Y: int16(binary.LittleEndian.Uint16(raw[2:4])),
		Z: int16(binary.LittleEndian.Uint16(raw[4:6])),
	}
}

// Encode returns the data register layout of a.
func (a Acceleration) Encode() [axisDataLen]byte {
	var raw [axisDataLen]byte
	binary.LittleEndian.PutUint16(raw[0:2], uint16(a.X))
	binary.LittleEndian.PutUint16(raw[2:4], uint16(a.Y))
	binary.LittleEndian.PutUint16(raw[4:6], uint16(a.Z))
	return raw
}

// Sample widens a to floating point. No scaling is applied: the unit is
// whatever one LSB represents at the configured Sensitivity.
func (a Acceleration) Sample() Sample {
	return Sample{X: float64(a.X), Y: float64(a.Y), Z: float64(a.Z)}
}

// Sample is an acceleration in device units.
type Sample struct {
	X float64
	Y float64
	Z float64
}

func (s Sample) String() string {
	return fmt.Sprintf("%g, %g, %g", s.X, s.Y, s.Z)
}

// Values returns the axes in X, Y, Z order.
func (s Sample) Values() []float64 {
	return []float64{s.X, s.Y, s.Z}
}
