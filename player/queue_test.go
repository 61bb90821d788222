// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package player

import (
	"math"
	"testing"
)

func TestBeatSlideFactorClampsAndGuardsZeroWidth(t *testing.T) {
	if f := beatSlideFactor(5, 10, 10); f != 1 {
		t.Fatalf("zero-width span should short-circuit to 1, got %v", f)
	}
	if f := beatSlideFactor(-1, 0, 4); f != 0 {
		t.Fatalf("below-range beat should clamp to 0, got %v", f)
	}
	if f := beatSlideFactor(10, 0, 4); f != 1 {
		t.Fatalf("above-range beat should clamp to 1, got %v", f)
	}
	if f := beatSlideFactor(2, 0, 4); f != 0.5 {
		t.Fatalf("got %v, want 0.5", f)
	}
}

func TestResolveFreqPitchSlideMatchesScenario5(t *testing.T) {
	// Scenario 5: pitch slide from c4 (261.626) to c5 (523.251) starting at
	// beat 0 and completing 4 beats later: end-of-beat targets are
	// c4*(c5/c4)^(1/4), c4*(c5/c4)^(2/4), c4*(c5/c4)^(3/4), c5 (the table's
	// c5 is not exactly 2*c4, so these differ slightly from c4*2^(k/4)).
	// SlideStart/SlideEnd are
	// absolute beat offsets from the slide's start beat, grounded on
	// queuePlay's freqAS/freqAE (beat-indexed, not fractions of the song).
	const c4 = 261.626
	const c5 = 523.251
	v := &voice{freqs: []float64{c4, c4, c4, c4}}
	m := &Misc{UsingPitchSlide: true, SlideFreq: c5, SlideStart: 0, SlideEnd: 4}

	want := []float64{
		c4 * math.Pow(c5/c4, 1.0/4),
		c4 * math.Pow(c5/c4, 2.0/4),
		c4 * math.Pow(c5/c4, 3.0/4),
		c5,
	}
	for beat := 0; beat < 4; beat++ {
		var misc *Misc
		if beat == 0 {
			misc = m
		}
		_, end, _, _ := v.resolveFreq(beat, 1000000, misc)
		if d := end - want[beat]; d > 1e-6 || d < -1e-6 {
			t.Errorf("beat %d: end freq = %v, want %v", beat, end, want[beat])
		}
	}
	if v.inPitchSlide {
		t.Fatal("slide should have cleared after the 4th beat reached factor 1")
	}
}

func TestResolveDutySlideIsLinearNotExponential(t *testing.T) {
	// The duty slide's target must come from linear interpolation: the
	// midpoint of a 0.2->0.8 slide spanning beats [0,2] lands exactly on
	// 0.5 at the end of beat 0, which an exponential interpolator would
	// not produce.
	v := &voice{duties: []float64{0.2, 0.2}}
	m := &Misc{UsingDutySlide: true, SlideDuty: 0.8, DutySlideStart: 0, DutySlideEnd: 2}

	_, end, _, _ := v.resolveDuty(0, 1000, m)
	if d := end - 0.5; d > 1e-9 || d < -1e-9 {
		t.Fatalf("got %v at the slide midpoint, want 0.5 (linear)", end)
	}
}

func TestResolveModulationRemembersAcrossBeats(t *testing.T) {
	v := &voice{}
	v.resolveModulation(&Misc{UsingVibrato: true, VibratoIntensity: 50, VibratoWidth: 2000})
	if v.vibratoIntensity != 50 || v.vibratoWidth != 2000 {
		t.Fatalf("vibrato not applied: %+v", v)
	}
	// A later beat with no vibrato override keeps the remembered values.
	v.resolveModulation(nil)
	if v.vibratoIntensity != 50 || v.vibratoWidth != 2000 {
		t.Fatalf("vibrato should persist across a beat with no override: %+v", v)
	}
}
