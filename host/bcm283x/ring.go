// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"

	"github.com/gpiowave/player/host/videocore"
)

// Ring is a fixed-size loop of DMA control blocks paired with a small
// command-word buffer, driven continuously by one DMA channel to play back a
// GPIO waveform: every transition in the waveform becomes one edge control
// block (write a mask to GPIO_SET or GPIO_CLR) chained to one delay control
// block (pace N microseconds by draining the PWM FIFO).
//
// Ring only knows about hardware: register offsets, bus addresses, and
// channel control. Deciding which slots to fill next, and when it is safe to
// overwrite a slot the engine has already passed, is the player package's
// job.
type Ring struct {
	cbs    []controlBlock
	cbBuf  *videocore.Mem
	cbBase uint32

	words    []uint32
	wordBuf  *videocore.Mem
	wordBase uint32

	id int
	ch *dmaChannel
}

// NewRing allocates a ring with room for slots transitions, each of which
// consumes one command word and two control blocks (edge + delay).
func NewRing(slots int) (*Ring, error) {
	if slots <= 0 {
		return nil, errors.New("bcm283x: ring needs at least one slot")
	}
	cbs, cbBuf, err := allocateCB(slots * 2 * 32)
	if err != nil {
		return nil, fmt.Errorf("bcm283x: allocating control blocks: %w", err)
	}
	if len(cbs) < slots*2 {
		cbBuf.Close()
		return nil, errors.New("bcm283x: control block allocation came back short")
	}
	words, wordBuf, err := allocateWords(slots)
	if err != nil {
		cbBuf.Close()
		return nil, fmt.Errorf("bcm283x: allocating command words: %w", err)
	}
	return &Ring{
		cbs:      cbs[:slots*2],
		cbBuf:    cbBuf,
		cbBase:   uint32(cbBuf.PhysAddr()),
		words:    words,
		wordBuf:  wordBuf,
		wordBase: uint32(wordBuf.PhysAddr()),
	}, nil
}

// allocateWords allocates a GPU-coherent buffer holding n uint32 command
// words, one per ring slot; each word is the GPIO mask an edge control block
// writes, or the filler value a delay control block drains.
func allocateWords(n int) ([]uint32, *videocore.Mem, error) {
	buf, err := videocore.Alloc((n*4 + 0xFFF) &^ 0xFFF)
	if err != nil {
		return nil, nil, err
	}
	var w []uint32
	if err := buf.AsPOD(&w); err != nil {
		buf.Close()
		return nil, nil, err
	}
	if len(w) < n {
		buf.Close()
		return nil, nil, errors.New("bcm283x: command word allocation came back short")
	}
	return w[:n], buf, nil
}

// Slots returns the number of transitions the ring can hold.
func (r *Ring) Slots() int {
	return len(r.words)
}

// gpioSetAddr and gpioClrAddr are the physical addresses of the GPIO pin
// output set/clear registers relative to the GPIO peripheral base; see
// "GPIO Pin Output Set 0" and "GPIO Pin Output Clear 0" in gpio.go.
func gpioSetAddr() uint32 { return gpioBaseAddr + 0x1C }
func gpioClrAddr() uint32 { return gpioBaseAddr + 0x28 }

// pwmFIFOAddr is the physical address of PWM channel 1's FIFO register,
// relative to the PWM peripheral's base (baseAddr + 0x20C000).
func pwmFIFOAddr() uint32 { return baseAddr + 0x20C000 + 0x18 }

// WriteEdge programs control block cb to apply mask to GPIO_SET (set=true) or
// GPIO_CLR (set=false), sourced from the ring's word slot.
func (r *Ring) WriteEdge(cb, word int, mask uint32, set bool) error {
	r.words[word] = mask
	dst := gpioClrAddr()
	if set {
		dst = gpioSetAddr()
	}
	return r.cbs[cb].initBlock(r.wordBase+uint32(word)*4, dst, 4, false, true, dmaFire, 0)
}

// WriteDelay programs control block cb to hold for waitUS microseconds by
// draining waitUS words from the PWM FIFO, paced by the PWM peripheral's
// clock. The PWM clock must already be configured for a 1MHz DREQ rate; see
// clock.go.
func (r *Ring) WriteDelay(cb, word int, waitUS uint32) {
	r.cbs[cb].initDelayBlock(r.wordBase+uint32(word)*4, pwmFIFOAddr(), waitUS)
}

// Link chains control block cb to run into to next, or halts the chain at cb
// if next < 0.
func (r *Ring) Link(cb, next int) {
	if next < 0 {
		r.cbs[cb].nextCB = 0
		return
	}
	r.cbs[cb].nextCB = r.cbBase + uint32(next)*32
}

// Activate picks a free full-bandwidth DMA channel and starts it running
// from control block start. The ring must already have at least one block
// programmed and linked.
func (r *Ring) Activate(start int) error {
	if r.ch != nil {
		return errors.New("bcm283x: ring is already active")
	}
	id, ch := pickChannel(7, 8, 9, 10, 11, 12, 13, 14, 15)
	if ch == nil {
		return errors.New("bcm283x: no DMA channel available")
	}
	r.id = id
	r.ch = ch
	ch.startIO(r.cbBase + uint32(start)*32)
	return nil
}

// Current returns the index of the control block the DMA engine is
// currently fetching from (two blocks per slot), or -1 if the ring isn't
// active or the engine has stopped mid-cycle in a way that doesn't map back
// to a known block.
func (r *Ring) Current() int {
	if r.ch == nil {
		return -1
	}
	addr := r.ch.cbAddr
	if addr < r.cbBase {
		return -1
	}
	idx := (addr - r.cbBase) / 32
	if idx >= uint32(len(r.cbs)) {
		return -1
	}
	return int(idx)
}

// Running reports whether the DMA channel backing the ring is still active.
func (r *Ring) Running() bool {
	return r.ch != nil && r.ch.cs&dmaActive != 0
}

// Stop halts and releases the DMA channel backing the ring. The ring itself
// remains allocated and can be reactivated with Activate.
func (r *Ring) Stop() {
	if r.ch == nil {
		return
	}
	r.ch.reset()
	r.ch = nil
	r.id = -1
}

// Close releases the ring's DMA-coherent memory. Stop must be called first
// if the ring is active.
func (r *Ring) Close() error {
	err1 := r.cbBuf.Close()
	err2 := r.wordBuf.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
