// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import "fmt"

// Sensitivity is the measurement range, bits 1:0 of DataFormat.
type Sensitivity byte

const (
	S2G  Sensitivity = 0x00 // Sensitivity at 2g
	S4G  Sensitivity = 0x01 // Sensitivity at 4g
	S8G  Sensitivity = 0x02 // Sensitivity at 8g
	S16G Sensitivity = 0x03 // Sensitivity at 16g
)

func (s Sensitivity) String() string {
	switch s {
	case S2G:
		return "±2g"
	case S4G:
		return "±4g"
	case S8G:
		return "±8g"
	case S16G:
		return "±16g"
	default:
		return fmt.Sprintf("Sensitivity(%d)", byte(s))
	}
}

// Justification selects how samples are aligned in the data registers.
type Justification byte

const (
	JustifyRight Justification = 0 // Right justified with sign extension
	JustifyLeft  Justification = 1 // MSB aligned
)

// WakeupRate is the reading frequency in sleep mode, bits 1:0 of PowerCtl.
type WakeupRate byte

const (
	Wakeup8Hz WakeupRate = 0x00
	Wakeup4Hz WakeupRate = 0x01
	Wakeup2Hz WakeupRate = 0x02
	Wakeup1Hz WakeupRate = 0x03
)

func (w WakeupRate) String() string {
	switch w {
	case Wakeup8Hz:
		return "8Hz"
	case Wakeup4Hz:
		return "4Hz"
	case Wakeup2Hz:
		return "2Hz"
	case Wakeup1Hz:
		return "1Hz"
	default:
		return fmt.Sprintf("WakeupRate(%d)", byte(w))
	}
}

// Bits of the DataFormat register.
const (
	formatSelfTest  = 0x80
	formatSPI3Wire  = 0x40
	formatIntInvert = 0x20
	formatFullRes   = 0x08
	formatJustify   = 0x04
	formatRangeMask = 0x03
)

// Bits of the PowerCtl register.
const (
	powerAutoSleep  = 0x10
	powerMeasure    = 0x08
	powerSleep      = 0x04
	powerWakeupMask = 0x03
)

// Format is the content of the DataFormat register.
//
// The zero value has every flag off, right justification and ±2g.
type Format struct {
	SelfTest       bool
	SPI3Wire       bool
	IntInvert      bool // Interrupts active low
	FullResolution bool // 4mg/LSB at every range instead of 10 bits
	Justify        Justification
	Range          Sensitivity
}

// Byte returns the register value: the OR of each field at its bit position.
func (f Format) Byte() byte {
	var b byte
	if f.SelfTest {
		b |= formatSelfTest
	}
	if f.SPI3Wire {
		b |= formatSPI3Wire
	}
	if f.IntInvert {
		b |= formatIntInvert
	}
	if f.FullResolution {
		b |= formatFullRes
	}
	if f.Justify == JustifyLeft {
		b |= formatJustify
	}
	b |= byte(f.Range) & formatRangeMask
	return b
}

func (f Format) String() string {
	return fmt.Sprintf("Format{SelfTest:%t SPI3Wire:%t IntInvert:%t FullRes:%t LeftJustify:%t Range:%s}",
		f.SelfTest, f.SPI3Wire, f.IntInvert, f.FullResolution, f.Justify == JustifyLeft, f.Range)
}

// ParseFormat decodes a DataFormat register value. Bit 4 is reserved and ignored.
func ParseFormat(b byte) Format {
	f := Format{
		SelfTest:       b&formatSelfTest != 0,
		SPI3Wire:       b&formatSPI3Wire != 0,
		IntInvert:      b&formatIntInvert != 0,
		FullResolution: b&formatFullRes != 0,
		Range:          Sensitivity(b & formatRangeMask),
	}
	if b&formatJustify != 0 {
		f.Justify = JustifyLeft
	}
	return f
}

// PowerControl is the content of the PowerCtl register.
//
// The zero value is standby at an 8Hz wake-up rate.
type PowerControl struct {
	AutoSleep bool
	Measure   bool
	Sleep     bool
	Wakeup    WakeupRate
}

// Byte returns the register value. Bit 5 (link) is always left clear.
func (p PowerControl) Byte() byte {
	var b byte
	if p.AutoSleep {
		b |= powerAutoSleep
	}
	if p.Measure {
		b |= powerMeasure
	}
	if p.Sleep {
		b |= powerSleep
	}
	b |= byte(p.Wakeup) & powerWakeupMask
	return b
}

func (p PowerControl) String() string {
	return fmt.Sprintf("PowerControl{AutoSleep:%t Measure:%t Sleep:%t Wakeup:%s}", p.AutoSleep, p.Measure, p.Sleep, p.Wakeup)
}

// ParsePowerControl decodes a PowerCtl register value.
func ParsePowerControl(b byte) PowerControl {
	return PowerControl{
		AutoSleep: b&powerAutoSleep != 0,
		Measure:   b&powerMeasure != 0,
		Sleep:     b&powerSleep != 0,
		Wakeup:    WakeupRate(b & powerWakeupMask),
	}
}
