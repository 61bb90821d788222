// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package player

import "github.com/gpiowave/player/wave"

// Transmitter streams a combined transition timeline into a control-block
// ring, one batch per beat, chaining each batch onto whatever is already
// live so playback never glitches between beats.
type Transmitter struct {
	r       *ring
	started bool
}

// NewTransmitter wraps hw (normally a *bcm283x.Ring) with the batch
// publication and ring-recycling policy.
func NewTransmitter(hw hwRing) *Transmitter {
	return &Transmitter{r: newRing(hw)}
}

// Send writes one beat's combined timeline to the ring and, on the first
// call, starts the DMA engine once the batch is durably linked.
func (t *Transmitter) Send(timeline []wave.Transition) error {
	for _, tr := range timeline {
		if _, err := t.r.write(tr.OnMask, tr.OffMask, tr.DelayUS); err != nil {
			return err
		}
	}
	t.r.halt()
	if !t.started {
		if err := t.r.activate(); err != nil {
			return err
		}
		t.started = true
	}
	return nil
}

// Idle reports whether the DMA engine has consumed everything written.
func (t *Transmitter) Idle() bool {
	return !t.r.hw.Running()
}

// Stop halts the DMA channel and resets all ring bookkeeping so the
// Transmitter can be reused for a later Queue.Play call.
func (t *Transmitter) Stop() {
	t.r.hw.Stop()
	t.r.reset()
	t.started = false
}
