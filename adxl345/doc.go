// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl345 controls an ADXL345 3-axis accelerometer over I²C or SPI
// and exposes it to a sensor framework.
//
// Dev speaks the register protocol: identification, data format and power
// control, and burst reads of the three axes. Driver wraps a Dev with the
// lifecycle expected by usersensor: Register, SetEnabled, Read, Unregister
// and Close.
//
// Samples are returned in raw device units. Nothing is filtered or
// calibrated.
//
// # Datasheet
//
// http://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package adxl345
