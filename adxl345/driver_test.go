// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/accel/usersensor"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// recordingManager is a usersensor.Manager that records calls.
type recordingManager struct {
	registered   []*usersensor.Sensor
	unregistered []*usersensor.Sensor
	onUnregister func(s *usersensor.Sensor)
	err          error
}

func (m *recordingManager) RegisterSensor(s *usersensor.Sensor) error {
	if m.err != nil {
		return m.err
	}
	m.registered = append(m.registered, s)
	return nil
}

func (m *recordingManager) UnregisterSensor(s *usersensor.Sensor) error {
	if m.onUnregister != nil {
		m.onUnregister(s)
	}
	m.unregistered = append(m.unregistered, s)
	return nil
}

func newPlaybackDriver(t *testing.T, m usersensor.Manager, ops ...i2ctest.IO) *Driver {
	t.Helper()
	d, _ := newPlaybackDev(t, nil, ops...)
	drv := NewDriver(d, m)
	t.Cleanup(func() { _ = drv.Close() })
	return drv
}

func TestRegisterIdempotent(t *testing.T) {
	m := &recordingManager{}
	drv := newPlaybackDriver(t, m)
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	if len(m.registered) != 1 {
		t.Fatalf("got %d registrations, want 1", len(m.registered))
	}
	s := m.registered[0]
	if s != drv.Sensor() {
		t.Error("Sensor() is not the registered token")
	}
	if s.Type != usersensor.Accelerometer || s.Name != "FaBoAccelerometer" || s.Vendor != "GClue" || s.Version != 1 {
		t.Errorf("unexpected identity %s", s)
	}
	if s.UUID == uuid.Nil {
		t.Error("nil UUID")
	}
	if s.Driver != usersensor.Driver(drv) {
		t.Error("the registered driver should be the Driver itself")
	}
}

func TestUnregisterWhenNotRegistered(t *testing.T) {
	m := &recordingManager{}
	drv := newPlaybackDriver(t, m)
	if err := drv.Unregister(); err != nil {
		t.Fatal(err)
	}
	if len(m.unregistered) != 0 {
		t.Errorf("got %d unregistrations, want 0", len(m.unregistered))
	}
}

func TestRegisterUnregister(t *testing.T) {
	m := &recordingManager{}
	drv := newPlaybackDriver(t, m)
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	first := drv.Sensor()
	if err := drv.Unregister(); err != nil {
		t.Fatal(err)
	}
	if drv.Sensor() != nil {
		t.Error("Sensor() should be nil after Unregister")
	}
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	if len(m.registered) != 2 || len(m.unregistered) != 1 || m.unregistered[0] != first {
		t.Fatalf("registered=%d unregistered=%d", len(m.registered), len(m.unregistered))
	}
	if m.registered[0].UUID == m.registered[1].UUID {
		t.Error("each registration should get a fresh UUID")
	}
}

func TestRegisterFailure(t *testing.T) {
	m := &recordingManager{err: errors.New("framework busy")}
	drv := newPlaybackDriver(t, m)
	if err := drv.Register(); err == nil {
		t.Fatal("Register() should fail")
	}
	if drv.Sensor() != nil {
		t.Error("failed registration left a token")
	}
}

func TestRegisterAfterClose(t *testing.T) {
	drv := newPlaybackDriver(t, &recordingManager{})
	if err := drv.Close(); err != nil {
		t.Fatal(err)
	}
	if err := drv.Register(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Register() error=%v, want ErrIllegalState", err)
	}
}

func TestRegisterAfterDevClose(t *testing.T) {
	m := &recordingManager{}
	drv := newPlaybackDriver(t, m)
	if err := drv.Dev().Close(); err != nil {
		t.Fatal(err)
	}
	if err := drv.Register(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Register() error=%v, want ErrIllegalState", err)
	}
	if len(m.registered) != 0 {
		t.Errorf("got %d registrations, want 0", len(m.registered))
	}
	if err := drv.SetEnabled(true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SetEnabled(true) error=%v, want ErrNotConnected", err)
	}
	if s := drv.State(); s != Connected {
		t.Errorf("State()=%s, want connected", s)
	}
}

func TestRegisterWithoutManager(t *testing.T) {
	drv := newPlaybackDriver(t, nil)
	if err := drv.Register(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Register() error=%v, want ErrIllegalState", err)
	}
}

func TestCloseUnregistersBeforeClosingDevice(t *testing.T) {
	var readErr error
	m := &recordingManager{}
	// The device must still be usable while the framework lets go of it.
	m.onUnregister = func(s *usersensor.Sensor) {
		_, readErr = s.Driver.Read()
	}
	drv := newPlaybackDriver(t, m, opSample)
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	if err := drv.Close(); err != nil {
		t.Fatal(err)
	}
	if len(m.unregistered) != 1 {
		t.Fatalf("got %d unregistrations, want 1", len(m.unregistered))
	}
	if readErr != nil {
		t.Errorf("device closed before unregistration: %v", readErr)
	}
	if drv.State() != Closed {
		t.Errorf("State()=%s, want closed", drv.State())
	}
}

func TestDriverClose(t *testing.T) {
	drv := newPlaybackDriver(t, &recordingManager{})
	if err := drv.Close(); err != nil {
		t.Fatal(err)
	}
	if err := drv.Close(); err != nil {
		t.Errorf("second Close()=%v, want nil", err)
	}
	if _, err := drv.ReadSample(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadSample() error=%v, want ErrNotConnected", err)
	}
	if _, err := drv.Read(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Read() error=%v, want ErrNotConnected", err)
	}
	if err := drv.SetEnabled(true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SetEnabled() error=%v, want ErrNotConnected", err)
	}
}

func TestSetEnabled(t *testing.T) {
	// Enabling writes the data format before the power control. Disabling
	// does not touch the bus.
	drv := newPlaybackDriver(t, nil, opConfigure, opPowerOn)
	if got := drv.State(); got != Connected {
		t.Fatalf("State()=%s, want connected", got)
	}
	if err := drv.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	if got := drv.State(); got != Enabled {
		t.Errorf("State()=%s, want enabled", got)
	}
	if err := drv.SetEnabled(false); err != nil {
		t.Fatal(err)
	}
	if got := drv.State(); got != Disabled {
		t.Errorf("State()=%s, want disabled", got)
	}
	if err := drv.Close(); err != nil {
		t.Errorf("Close()=%v; unexpected bus traffic", err)
	}
}

func TestSetEnabledSwallowsIOError(t *testing.T) {
	drv := newPlaybackDriver(t, nil)
	if err := drv.SetEnabled(true); err != nil {
		t.Errorf("SetEnabled(true)=%v, want nil", err)
	}
	if got := drv.State(); got != Enabled {
		t.Errorf("State()=%s, want enabled", got)
	}
}

func TestRead(t *testing.T) {
	drv := newPlaybackDriver(t, nil, opIdentify, opSample)
	if !drv.Identify() {
		t.Fatal("Identify()=false")
	}
	r, err := drv.Read()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{16, 32, 48}, r.Values); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestWithRegistry(t *testing.T) {
	reg := usersensor.NewRegistry(nil)
	var got []usersensor.Event
	reg.OnDynamicSensor(func(s *usersensor.Sensor, connected bool) {
		if !connected {
			return
		}
		if _, err := reg.Subscribe(s.UUID, func(e usersensor.Event) { got = append(got, e) }); err != nil {
			t.Error(err)
		}
	})
	drv := newPlaybackDriver(t, reg, opConfigure, opPowerOn, opSample)
	if err := drv.Register(); err != nil {
		t.Fatal(err)
	}
	if drv.State() != Enabled {
		t.Fatalf("State()=%s, want enabled", drv.State())
	}
	if n := reg.Poll(); n != 1 {
		t.Fatalf("Poll()=%d, want 1", n)
	}
	if diff := cmp.Diff([]float64{16, 32, 48}, got[0].Values); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
	if err := drv.Close(); err != nil {
		t.Fatal(err)
	}
	if n := len(reg.Sensors()); n != 0 {
		t.Errorf("%d sensors left registered after Close", n)
	}
	if n := reg.Poll(); n != 0 {
		t.Errorf("Poll() after Close=%d, want 0", n)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Unconnected: "unconnected",
		Connected:   "connected",
		Enabled:     "enabled",
		Disabled:    "disabled",
		Closed:      "closed",
		State(99):   "State(99)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String()=%q, want %q", int(s), got, want)
		}
	}
}
