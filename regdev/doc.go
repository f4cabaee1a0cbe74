// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regdev gives exclusive, register oriented access to a single
// peripheral on an I²C bus or an SPI port.
//
// A Dev owns its bus handle: it is created once, lives as long as the driver
// built on top of it and is released exactly once by Close. Every method is a
// synchronous bus transaction; there is no caching and no retry. Transport
// failures are returned wrapped in ErrIO.
//
// Only one Dev may claim a given bus and address at a time in a process.
package regdev
