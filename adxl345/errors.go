// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected = errors.New("adxl345: device not connected")
	ErrIllegalState = errors.New("adxl345: illegal state")
)

// ConnectError is returned when the device cannot be opened.
type ConnectError struct {
	Bus string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("adxl345: cannot connect on bus %q: %v", e.Bus, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
