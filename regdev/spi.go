// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regdev

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPI link parameters used by NewSPI.
var (
	SPIFrequency = physic.KiloHertz * 50
	SPIMode      = spi.Mode3 // Clock idles high, data sampled on the rising edge.
	SPIBits      = 8
)

const (
	spiRead  = 0x80 // Bit 7 of the command byte selects a read.
	spiMulti = 0x40 // Bit 6 of the command byte enables address auto increment.
)

// OpenSPI opens the SPI port named portName through spireg.
//
// The Dev owns the port and closes it on Close.
func OpenSPI(portName string) (*Dev, error) {
	p, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("regdev: open %q: %w: %w", portName, ErrBusUnavailable, err)
	}
	d, err := NewSPI(p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return d, nil
}

// NewSPI connects to p with SPIFrequency, SPIMode and SPIBits.
//
// Registers are accessed with the common 4-wire convention: the first byte
// carries the register index, bit 7 set for a read and bit 6 set for a burst.
// On success the Dev owns p.
func NewSPI(p spi.Port) (*Dev, error) {
	c, err := p.Connect(SPIFrequency, SPIMode, SPIBits)
	if err != nil {
		return nil, fmt.Errorf("regdev: connect %s: %w: %w", p, ErrBusUnavailable, err)
	}
	k := claim{bus: p.String()}
	if err := k.acquire(); err != nil {
		return nil, err
	}
	d := &Dev{t: &spiTransport{c: c}, key: k}
	if cl, ok := p.(io.Closer); ok {
		d.c = cl
	}
	return d, nil
}

type spiTransport struct {
	c spi.Conn
}

func (t *spiTransport) readRegs(reg byte, r []byte) error {
	cmd := reg | spiRead
	if len(r) > 1 {
		cmd |= spiMulti
	}
	tx := make([]byte, len(r)+1)
	tx[0] = cmd
	rx := make([]byte, len(tx))
	if err := t.c.Tx(tx, rx); err != nil {
		return err
	}
	copy(r, rx[1:])
	return nil
}

func (t *spiTransport) writeReg(reg, value byte) error {
	return t.c.Tx([]byte{reg, value}, nil)
}
