// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for the ADXL345 accelerometer driver and the
// sensor framework it registers with.
//
// adxl345 holds the device driver, regdev the register access layer over I²C
// and SPI, and usersensor the framework a host uses to discover and poll
// sensors. cmd/adxl345 ties them together.
package accel
