// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package axisbar draws one line of coloured bars, one per axis, on a
// terminal using ANSI colour codes.
//
// Each bar is centred on zero: cells fill to the right for positive values
// and to the left for negative ones.
package axisbar

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the bars.
type Opts struct {
	// Width is the number of cells of each half bar.
	Width int
	// FullScale is the absolute value drawn as a full half bar.
	FullScale float64
	// Colors of the X, Y and Z bars. Zero values pick red, green and blue.
	Colors  [3]color.NRGBA
	Palette *ansi256.Palette
	// W is the output; nil means a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev draws bars at the console.
type Dev struct {
	w         io.Writer
	width     int
	fullScale float64
	colors    [3]color.NRGBA
	palette   ansi256.Palette

	buf bytes.Buffer
}

var defaultColors = [3]color.NRGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
}

var off = color.NRGBA{0, 0, 0, 255}

// New returns a Dev. 512 is a good FullScale for the 10 bit output of the
// ADXL345.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 {
		return nil, errors.New("axisbar: width must be positive")
	}
	if opts.FullScale <= 0 {
		return nil, errors.New("axisbar: full scale must be positive")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:         w,
		width:     opts.Width,
		fullScale: opts.FullScale,
		colors:    opts.Colors,
		palette:   *p,
	}
	for i := range d.colors {
		if d.colors[i] == (color.NRGBA{}) {
			d.colors[i] = defaultColors[i]
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return "AxisBar"
}

// Halt resets the terminal colours and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Cells returns how many cells a value fills, signed, clamped to Width.
func (d *Dev) Cells(v float64) int {
	n := int(math.Round(v / d.fullScale * float64(d.width)))
	if n > d.width {
		return d.width
	}
	if n < -d.width {
		return -d.width
	}
	return n
}

// Draw redraws the line with one bar per value. Extra values are ignored.
func (d *Dev) Draw(values ...float64) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i, v := range values {
		if i == len(d.colors) {
			break
		}
		if i != 0 {
			_, _ = d.buf.WriteString("\033[0m ")
		}
		n := d.Cells(v)
		for c := -d.width; c < d.width; c++ {
			lit := (n < 0 && c >= n && c < 0) || (n > 0 && c >= 0 && c < n)
			col := off
			if lit {
				col = d.colors[i]
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(col))
		}
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}
