// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regdev

import "errors"

var (
	ErrBusUnavailable = errors.New("bus unavailable")
	ErrIO             = errors.New("i/o error")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrClosed         = errors.New("device closed")
)
