// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usersensor is the narrow surface between a user space sensor
// driver and the sensor framework of the host.
//
// A driver implements Driver and is described by a Sensor. The host passes a
// Manager to the driver, which registers itself. Registry is a Manager that
// runs inside the process and delivers readings to subscribers.
package usersensor
