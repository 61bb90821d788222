// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package player

// fakeHW is a software model of the hardware ring (normally bcm283x.Ring),
// used to exercise the recycling policy and batch linking without real DMA
// hardware.
type fakeHW struct {
	slots int

	writeEdge  []edgeWrite
	writeDelay []delayWrite
	links      map[int]int

	cur         int
	running     bool
	activated   int
	stopped     bool
	advanceStep int // Current() advance per tick(), simulated reader progress
}

type edgeWrite struct {
	cb, word int
	mask     uint32
	set      bool
}

type delayWrite struct {
	cb, word int
	wait     uint32
}

func (f *fakeHW) Slots() int { return f.slots }

func (f *fakeHW) WriteEdge(cb, word int, mask uint32, set bool) error {
	f.writeEdge = append(f.writeEdge, edgeWrite{cb, word, mask, set})
	return nil
}

func (f *fakeHW) WriteDelay(cb, word int, wait uint32) {
	f.writeDelay = append(f.writeDelay, delayWrite{cb, word, wait})
}

func (f *fakeHW) Link(cb, next int) {
	if f.links == nil {
		f.links = map[int]int{}
	}
	f.links[cb] = next
}

func (f *fakeHW) Activate(start int) error {
	f.activated++
	f.running = true
	f.cur = start
	return nil
}

func (f *fakeHW) Current() int { return f.cur }
func (f *fakeHW) Running() bool { return f.running }

func (f *fakeHW) Stop() {
	f.running = false
	f.stopped = true
}

// tick simulates the DMA engine advancing advanceStep control blocks,
// wrapping at the end of the ring exactly as the real CONBLK_AD register
// would when the reader loops back to block 0.
func (f *fakeHW) tick() {
	if f.advanceStep == 0 {
		return
	}
	f.cur += f.advanceStep
	if n := 2 * f.slots; f.cur >= n {
		f.cur -= n
	}
}
