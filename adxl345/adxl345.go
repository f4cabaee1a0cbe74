// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/GermanBionicSystems/accel/regdev"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// DefaultOpts is used when nil Opts are passed.
var DefaultOpts = Opts{
	ExpectedDeviceID: ChipID,
	Sensitivity:      S16G,
	Wakeup:           Wakeup8Hz,
	Name:             "FaBoAccelerometer",
	Vendor:           "GClue",
	Version:          1,
}

// Opts holds the configuration applied by Configure and PowerOn and the
// identity used when registering a Driver.
type Opts struct {
	ExpectedDeviceID byte        // Expected device ID used to verify that the device is an ADXL345; 0 means ChipID.
	Sensitivity      Sensitivity // Range written by Configure.
	Wakeup           WakeupRate  // Wake-up rate written by PowerOn.

	Name    string
	Vendor  string
	Version int

	// Logger receives configuration failures and lifecycle records. nil means
	// slog.Default().
	Logger *slog.Logger
	// OnError, when set, is called with every error that Configure or PowerOn
	// swallow.
	OnError func(op string, err error)
}

// Dev is a driver for the ADXL345 accelerometer.
//
// A Dev owns its regdev.Dev. After Close every operation fails with
// ErrNotConnected.
type Dev struct {
	mu     sync.Mutex
	r      *regdev.Dev
	opts   Opts
	logger *slog.Logger
}

// New opens the I²C bus busName and connects to the ADXL345 at I2CAddr.
//
// Nothing is written to the device; call Configure and PowerOn to start
// measuring.
func New(busName string, o *Opts) (*Dev, error) {
	r, err := regdev.Open(busName, I2CAddr)
	if err != nil {
		return nil, &ConnectError{Bus: busName, Err: err}
	}
	return newDev(r, o), nil
}

// NewI2C connects to the ADXL345 at addr on b. The Dev takes ownership of b.
func NewI2C(b i2c.Bus, addr uint16, o *Opts) (*Dev, error) {
	r, err := regdev.NewI2C(b, addr)
	if err != nil {
		return nil, &ConnectError{Bus: b.String(), Err: err}
	}
	return newDev(r, o), nil
}

// NewSPI connects to the ADXL345 on the 4-wire SPI port p. The Dev takes
// ownership of p.
func NewSPI(p spi.Port, o *Opts) (*Dev, error) {
	r, err := regdev.NewSPI(p)
	if err != nil {
		return nil, &ConnectError{Bus: p.String(), Err: err}
	}
	return newDev(r, o), nil
}

func newDev(r *regdev.Dev, o *Opts) *Dev {
	if o == nil {
		o = &DefaultOpts
	}
	opts := *o
	if opts.ExpectedDeviceID == 0 {
		opts.ExpectedDeviceID = ChipID
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dev{r: r, opts: opts, logger: logger.With("dev", r.String())}
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return "ADXL345{closed}"
	}
	return fmt.Sprintf("ADXL345{%s}", d.r)
}

// Identify reports whether the DeviceID register holds the expected chip
// ID. A failed read counts as a mismatch.
func (d *Dev) Identify() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return false
	}
	v, err := d.r.ReadReg(DeviceID)
	if err != nil {
		d.logger.Debug("adxl345: identify failed", "err", err)
		return false
	}
	return v == d.opts.ExpectedDeviceID
}

// Configure writes the data format: the configured Sensitivity, right
// justified, every other flag off.
//
// A failure is logged and passed to Opts.OnError but not returned; the caller
// can call Configure again.
func (d *Dev) Configure() {
	f := Format{Justify: JustifyRight, Range: d.opts.Sensitivity}
	d.writeBestEffort("configure", DataFormat, f.Byte())
}

// PowerOn starts measuring: auto sleep and sleep off, the configured wake-up
// rate.
//
// Failures are handled as in Configure.
func (d *Dev) PowerOn() {
	p := PowerControl{Measure: true, Wakeup: d.opts.Wakeup}
	d.writeBestEffort("power on", PowerCtl, p.Byte())
}

func (d *Dev) writeBestEffort(op string, reg, value byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if d.r == nil {
		err = ErrNotConnected
	} else {
		err = d.r.WriteReg(reg, value)
	}
	if err == nil {
		return
	}
	d.logger.Warn("adxl345: "+op+" failed", "reg", reg, "value", value, "err", err)
	if d.opts.OnError != nil {
		d.opts.OnError(op, err)
	}
}

// Sense reads the three axes in one burst.
func (d *Dev) Sense() (Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return Acceleration{}, ErrNotConnected
	}
	b, err := d.r.ReadRegs(DataX0, axisDataLen)
	if err != nil {
		return Acceleration{}, fmt.Errorf("adxl345: read sample: %w", err)
	}
	return DecodeAcceleration([axisDataLen]byte(b)), nil
}

// ReadSample reads the three axes and widens them to a Sample.
func (d *Dev) ReadSample() (Sample, error) {
	a, err := d.Sense()
	if err != nil {
		return Sample{}, err
	}
	return a.Sample(), nil
}

// Format reads back the DataFormat register.
func (d *Dev) Format() (Format, error) {
	v, err := d.readReg(DataFormat)
	return ParseFormat(v), err
}

// PowerControl reads back the PowerCtl register.
func (d *Dev) PowerControl() (PowerControl, error) {
	v, err := d.readReg(PowerCtl)
	return ParsePowerControl(v), err
}

func (d *Dev) closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r == nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return 0, ErrNotConnected
	}
	v, err := d.r.ReadReg(reg)
	if err != nil {
		return 0, fmt.Errorf("adxl345: %w", err)
	}
	return v, nil
}

// Close releases the bus. Calling Close again is a no-op.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	if err != nil {
		return fmt.Errorf("adxl345: %w", err)
	}
	return nil
}
