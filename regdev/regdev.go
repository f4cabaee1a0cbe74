// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regdev

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// regSpace is the number of addressable registers behind a one byte index.
const regSpace = 0x100

// transport performs the raw register transactions for a Dev.
type transport interface {
	readRegs(reg byte, r []byte) error
	writeReg(reg, value byte) error
}

// Dev is an exclusively owned handle to one peripheral.
//
// Dev is not safe for concurrent use; callers serialize access.
type Dev struct {
	t      transport
	c      io.Closer
	key    claim
	closed bool
}

// Open opens the I²C bus named busName through i2creg and claims addr on it.
//
// Use an empty busName to pick the first bus available. The Dev owns the bus
// and closes it on Close.
func Open(busName string, addr uint16) (*Dev, error) {
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("regdev: open %q: %w: %w", busName, ErrBusUnavailable, err)
	}
	d, err := NewI2C(b, addr)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return d, nil
}

// NewI2C returns a Dev talking to addr on b.
//
// On success the Dev takes ownership of b: Close closes b if it implements
// io.Closer. On failure b is left untouched.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	if addr == 0 || addr > 0x7F {
		return nil, fmt.Errorf("regdev: invalid i2c address %#x: %w", addr, ErrBusUnavailable)
	}
	k := claim{bus: b.String(), addr: addr}
	if err := k.acquire(); err != nil {
		return nil, err
	}
	d := &Dev{t: &i2cTransport{d: i2c.Dev{Bus: b, Addr: addr}}, key: k}
	if c, ok := b.(io.Closer); ok {
		d.c = c
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("regdev{%s:0x%02X}", d.key.bus, d.key.addr)
}

// ReadReg reads the single register reg.
func (d *Dev) ReadReg(reg byte) (byte, error) {
	if d.closed {
		return 0, ErrClosed
	}
	var r [1]byte
	if err := d.t.readRegs(reg, r[:]); err != nil {
		return 0, fmt.Errorf("regdev: read 0x%02X: %w: %w", reg, ErrIO, err)
	}
	return r[0], nil
}

// WriteReg writes value to register reg.
func (d *Dev) WriteReg(reg, value byte) error {
	if d.closed {
		return ErrClosed
	}
	if err := d.t.writeReg(reg, value); err != nil {
		return fmt.Errorf("regdev: write 0x%02X: %w: %w", reg, ErrIO, err)
	}
	return nil
}

// ReadRegs reads n contiguous registers starting at reg in a single burst.
//
// It returns ErrLengthMismatch when the device cannot return n bytes from reg,
// that is when n is not positive or the burst would run past register 0xFF.
func (d *Dev) ReadRegs(reg byte, n int) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if n < 1 || int(reg)+n > regSpace {
		return nil, fmt.Errorf("regdev: read %d bytes at 0x%02X: %w", n, reg, ErrLengthMismatch)
	}
	r := make([]byte, n)
	if err := d.t.readRegs(reg, r); err != nil {
		return nil, fmt.Errorf("regdev: read %d bytes at 0x%02X: %w: %w", n, reg, ErrIO, err)
	}
	return r, nil
}

// Close releases the claim on the address and closes the bus handle.
//
// Calling Close more than once is a no-op.
func (d *Dev) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.key.release()
	if d.c == nil {
		return nil
	}
	if err := d.c.Close(); err != nil {
		return fmt.Errorf("regdev: close %s: %w", d.key.bus, err)
	}
	return nil
}

// i2cTransport reads with a write of the register index followed by a
// repeated start read.
type i2cTransport struct {
	d i2c.Dev
}

func (t *i2cTransport) readRegs(reg byte, r []byte) error {
	return t.d.Tx([]byte{reg}, r)
}

func (t *i2cTransport) writeReg(reg, value byte) error {
	return t.d.Tx([]byte{reg, value}, nil)
}

// claim identifies a device on a bus.
type claim struct {
	bus  string
	addr uint16
}

var (
	claimsMu sync.Mutex
	claims   = map[claim]struct{}{}
)

func (k claim) acquire() error {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	if _, ok := claims[k]; ok {
		return fmt.Errorf("regdev: %s address 0x%02X already claimed: %w", k.bus, k.addr, ErrBusUnavailable)
	}
	claims[k] = struct{}{}
	return nil
}

func (k claim) release() {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	delete(claims, k)
}
