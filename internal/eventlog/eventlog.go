// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eventlog records sensor events as a stream of CBOR items.
package eventlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/GermanBionicSystems/accel/usersensor"
	"github.com/fxamacker/cbor/v2"
)

// Record is one recorded event.
type Record struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	SensorID  string    `cbor:"2,keyasint"`
	Type      string    `cbor:"3,keyasint"`
	Values    []float64 `cbor:"4,keyasint"`
}

// FromEvent converts a framework event.
func FromEvent(e usersensor.Event) Record {
	r := Record{Timestamp: e.Timestamp, Values: e.Values}
	if e.Sensor != nil {
		r.SensorID = e.Sensor.UUID.String()
		r.Type = e.Sensor.Type.String()
	}
	return r
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("eventlog: cbor encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("eventlog: cbor decoder mode: %v", err))
	}
}

// Writer appends records to an io.Writer. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	enc    *cbor.Encoder
	closed bool
}

// NewWriter returns a Writer on w. Close closes w when it is an io.Closer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, enc: encMode.NewEncoder(w)}
}

// Create opens path for appending and returns a Writer on it.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// Write appends r.
func (w *Writer) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return os.ErrClosed
	}
	return w.enc.Encode(r)
}

// Close closes the underlying writer. Calling Close again is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Reader iterates over the records of a stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: decMode.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("eventlog: %w", err)
	}
	return rec, nil
}

// ReadAll returns every record of r.
func ReadAll(r io.Reader) ([]Record, error) {
	rd := NewReader(r)
	var out []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
