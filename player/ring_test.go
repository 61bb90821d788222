// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package player

import (
	"testing"
	"time"
)

func TestRingLinksChainAndHalts(t *testing.T) {
	hw := &fakeHW{slots: 5, running: true}
	r := newRing(hw)
	r.sleep = func(time.Duration) {}

	for i := 0; i < 3; i++ {
		if _, err := r.write(1, 0, 50); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	r.halt()

	// Transition i occupies cb 2i (edge) and 2i+1 (delay); the chain runs
	// edge->delay->next-edge->... and the last delay halts.
	want := map[int]int{0: 1, 1: 2, 2: 3, 3: 4, 4: 5, 5: -1}
	for cb, next := range want {
		got, ok := hw.links[cb]
		if !ok || got != next {
			t.Errorf("link[%d] = %v (ok=%v), want %d", cb, got, ok, next)
		}
	}
}

func TestRingWrapsAndWaitsForReader(t *testing.T) {
	hw := &fakeHW{slots: 3, running: true, advanceStep: 2}
	r := newRing(hw)
	r.sleep = func(time.Duration) { hw.tick() }

	// 7 transitions into a 3-slot ring forces at least two wraps.
	for i := 0; i < 7; i++ {
		if _, err := r.write(1, 0, 100); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if r.lap == 0 {
		t.Fatal("expected the ring to have wrapped at least once")
	}
	if len(hw.writeEdge) != 7 || len(hw.writeDelay) != 7 {
		t.Fatalf("got %d edges / %d delays, want 7/7", len(hw.writeEdge), len(hw.writeDelay))
	}
}

func TestRingDelaySplitsAcrossBlocks(t *testing.T) {
	hw := &fakeHW{slots: 10, running: true, advanceStep: 4}
	r := newRing(hw)
	r.sleep = func(time.Duration) { hw.tick() }

	total := uint32(maxBlockDelayUS) + 500
	if _, err := r.write(1, 0, total); err != nil {
		t.Fatal(err)
	}

	var sum uint32
	for _, d := range hw.writeDelay {
		sum += d.wait
	}
	if sum != total {
		t.Fatalf("got total delay %d across blocks, want %d", sum, total)
	}
	if len(hw.writeDelay) < 2 {
		t.Fatalf("expected the delay to be split into at least 2 blocks, got %d", len(hw.writeDelay))
	}
}
