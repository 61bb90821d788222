// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wave generates and merges per-pin square-wave transition
// sequences: the audio content of a beat, before it is handed to the
// player package for conversion into DMA control blocks.
package wave

// Transition is a single GPIO edge plus the delay to hold after it.
//
// Exactly one of OnMask/OffMask is non-zero in any Transition a Generate or
// Combine call produces; DelayUS is the time to wait after applying the
// edge, not before.
type Transition struct {
	OnMask  uint32
	OffMask uint32
	DelayUS uint32
}

// Continuity is the per-pin state carried from one beat to the next so a
// new beat's waveform picks up in phase with the previous one instead of
// producing an audible "pop" at the boundary.
type Continuity struct {
	// VOffset is the vibrato phase, in microseconds, already elapsed.
	VOffset uint32
	// TOffset is the tremolo phase, in microseconds, already elapsed.
	TOffset uint32
	// WOffset is the leftover microseconds of the prior half-cycle that
	// spill into the next beat.
	WOffset uint32
	// WOn is true if the edge that closes WOffset's filler transition
	// should be a rising edge.
	WOn bool
}

// Initial is the continuity state of a pin that has never played a beat.
var Initial = Continuity{WOn: true}
