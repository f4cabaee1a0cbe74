// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usersensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyRegistered = errors.New("usersensor: sensor already registered")
	ErrNotRegistered     = errors.New("usersensor: sensor not registered")
)

// Registry is an in-process Manager.
//
// A sensor is enabled when it gets its first subscriber and disabled when the
// last one leaves. Poll and Run read every enabled sensor and fan the result
// out to its subscribers.
type Registry struct {
	mu      sync.Mutex
	sensors map[uuid.UUID]*entry
	order   []uuid.UUID
	dynamic []func(s *Sensor, connected bool)
	logger  *slog.Logger
	now     func() time.Time
}

type entry struct {
	s *Sensor

	// call serializes calls into the driver and is held by UnregisterSensor
	// so no call is in flight once it returns. It guards gone and enabled.
	call    sync.Mutex
	gone    bool
	enabled bool

	subs   map[int]func(Event)
	nextID int
}

// NewRegistry returns an empty Registry. A nil logger means slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sensors: map[uuid.UUID]*entry{},
		logger:  logger,
		now:     time.Now,
	}
}

// OnDynamicSensor registers fn to be called each time a sensor is registered
// (connected is true) or unregistered (connected is false).
//
// fn is called without any lock held and may call Subscribe.
func (r *Registry) OnDynamicSensor(fn func(s *Sensor, connected bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dynamic = append(r.dynamic, fn)
}

// RegisterSensor implements Manager.
func (r *Registry) RegisterSensor(s *Sensor) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.sensors[s.UUID]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, s)
	}
	r.sensors[s.UUID] = &entry{s: s, subs: map[int]func(Event){}}
	r.order = append(r.order, s.UUID)
	dynamic := append([]func(*Sensor, bool){}, r.dynamic...)
	r.mu.Unlock()

	r.logger.Debug("sensor registered", "sensor", s.String())
	for _, fn := range dynamic {
		fn(s, true)
	}
	return nil
}

// UnregisterSensor implements Manager.
//
// It waits for an in-flight Read or SetEnabled on the sensor's driver to
// return; after that the registry never calls the driver again.
func (r *Registry) UnregisterSensor(s *Sensor) error {
	r.mu.Lock()
	e, ok := r.sensors[s.UUID]
	if !ok || e.s != s {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotRegistered, s)
	}
	delete(r.sensors, s.UUID)
	for i, id := range r.order {
		if id == s.UUID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	dynamic := append([]func(*Sensor, bool){}, r.dynamic...)
	r.mu.Unlock()

	e.call.Lock()
	e.gone = true
	e.call.Unlock()

	r.logger.Debug("sensor unregistered", "sensor", s.String())
	for _, fn := range dynamic {
		fn(s, false)
	}
	return nil
}

// Sensors returns the registered sensors in registration order.
func (r *Registry) Sensors() []*Sensor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Sensor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sensors[id].s)
	}
	return out
}

// Subscribe attaches fn to the sensor identified by id.
//
// The first subscriber enables the sensor. The returned cancel function
// detaches fn and disables the sensor when it was the last subscriber.
func (r *Registry) Subscribe(id uuid.UUID, fn func(Event)) (cancel func(), err error) {
	r.mu.Lock()
	e, ok := r.sensors[id]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	subID := e.nextID
	e.nextID++
	e.subs[subID] = fn
	r.mu.Unlock()

	if err := r.syncEnabled(e); err != nil {
		r.mu.Lock()
		delete(e.subs, subID)
		r.mu.Unlock()
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(e.subs, subID)
			r.mu.Unlock()
			if err := r.syncEnabled(e); err != nil {
				r.logger.Warn("disabling sensor failed", "sensor", e.s.String(), "err", err)
			}
		})
	}, nil
}

// syncEnabled enables the sensor's driver when it has subscribers and
// disables it when it has none. Poll skips the sensor until the driver
// accepted being enabled.
func (r *Registry) syncEnabled(e *entry) error {
	e.call.Lock()
	defer e.call.Unlock()
	r.mu.Lock()
	want := len(e.subs) != 0
	r.mu.Unlock()
	if e.gone {
		if want {
			return fmt.Errorf("%w: %s", ErrNotRegistered, e.s)
		}
		return nil
	}
	if want == e.enabled {
		return nil
	}
	if err := e.s.Driver.SetEnabled(want); err != nil {
		return err
	}
	e.enabled = want
	return nil
}

// Poll reads every sensor that has at least one subscriber once and
// dispatches the readings. It returns the number of events delivered.
//
// A failed read is logged and skipped.
func (r *Registry) Poll() int {
	type job struct {
		e    *entry
		subs []func(Event)
	}
	r.mu.Lock()
	jobs := make([]job, 0, len(r.order))
	for _, id := range r.order {
		e := r.sensors[id]
		if len(e.subs) == 0 {
			continue
		}
		j := job{e: e}
		for _, fn := range e.subs {
			j.subs = append(j.subs, fn)
		}
		jobs = append(jobs, j)
	}
	r.mu.Unlock()

	n := 0
	for _, j := range jobs {
		j.e.call.Lock()
		if j.e.gone || !j.e.enabled {
			j.e.call.Unlock()
			continue
		}
		reading, err := j.e.s.Driver.Read()
		j.e.call.Unlock()
		if err != nil {
			r.logger.Warn("sensor read failed", "sensor", j.e.s.String(), "err", err)
			continue
		}
		ev := Event{Sensor: j.e.s, Timestamp: r.now(), Values: reading.Values}
		for _, fn := range j.subs {
			fn(ev)
			n++
		}
	}
	return n
}

// Run calls Poll every interval until ctx is canceled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("usersensor: invalid poll interval %s", interval)
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.Poll()
		}
	}
}

var _ Manager = &Registry{}
