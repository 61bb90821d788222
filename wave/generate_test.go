// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wave

import "testing"

func sumDelay(ts []Transition) uint32 {
	var s uint32
	for _, t := range ts {
		s += t.DelayUS
	}
	return s
}

func TestGenerateSilence(t *testing.T) {
	// Scenario 2: freq == 0 emits a single off transition for the whole
	// beat, regardless of duty cycle.
	r := Generate(GenParams{
		Pin:       21,
		FreqStart: 0,
		FreqEnd:   0,
		DutyStart: 0.5,
		DutyEnd:   0.5,
		Length:    1000,
		Value:     1,
	})
	if len(r.Transitions) != 1 {
		t.Fatalf("got %d transitions, want 1", len(r.Transitions))
	}
	tr := r.Transitions[0]
	if tr.OnMask != 0 || tr.OffMask != 1<<21 || tr.DelayUS != 1000 {
		t.Fatalf("got %+v", tr)
	}
	if !r.Continuity.WOn {
		t.Fatal("silence should leave WOn true for the next beat")
	}
}

func TestGenerateDutyCycleCleanDivision(t *testing.T) {
	// Scenario 3: duty 0.2 at 1000Hz over a 10ms beat divides evenly:
	// half period is 500us, on is 200us, off is 800us, 10 full cycles.
	r := Generate(GenParams{
		Pin:            21,
		FreqStart:      1000,
		FreqEnd:        1000,
		DutyStart:      0.2,
		DutyEnd:        0.2,
		Length:         10000,
		Value:          1,
		FreqDelayStart: 0,
		FreqDelayEnd:   0,
		DutyDelayStart: 0,
		DutyDelayEnd:   0,
		Continuity:     Initial,
	})
	if len(r.Transitions) != 20 {
		t.Fatalf("got %d transitions, want 20", len(r.Transitions))
	}
	for i, tr := range r.Transitions {
		if i%2 == 0 {
			if tr.OnMask != 1<<21 || tr.DelayUS != 200 {
				t.Fatalf("rising edge %d: got %+v, want on/200", i, tr)
			}
		} else {
			if tr.OffMask != 1<<21 || tr.DelayUS != 800 {
				t.Fatalf("falling edge %d: got %+v, want off/800", i, tr)
			}
		}
	}
	if s := sumDelay(r.Transitions); s != 10000 {
		t.Fatalf("total delay = %d, want 10000", s)
	}
}

func TestGenerateTotalDurationAlwaysMatchesBeatLength(t *testing.T) {
	// Whatever the frequency/duty, the transitions emitted for a beat must
	// always account for exactly the beat's length, so the next beat's
	// phase-continuity math has a stable reference point.
	cases := []struct {
		freq, duty float64
		length     uint32
	}{
		{440, 0.5, 1000000},
		{261.626, 0.3, 500000},
		{880, 0.9, 333333},
	}
	for _, c := range cases {
		r := Generate(GenParams{
			Pin:       4,
			FreqStart: c.freq,
			FreqEnd:   c.freq,
			DutyStart: c.duty,
			DutyEnd:   c.duty,
			Length:    c.length,
			Value:     1,
		})
		if s := sumDelay(r.Transitions); s != c.length {
			t.Errorf("freq=%v duty=%v: total delay = %d, want %d", c.freq, c.duty, s, c.length)
		}
		if len(r.Transitions) == 0 {
			t.Errorf("freq=%v duty=%v: no transitions emitted", c.freq, c.duty)
		}
		if r.Micros != c.length {
			t.Errorf("freq=%v duty=%v: Micros = %d, want %d", c.freq, c.duty, r.Micros, c.length)
		}
	}
}

func TestGenerateNoteValueParksLow(t *testing.T) {
	// A note value below 1 leaves a silent tail: the pin is parked low for
	// whatever fraction of the beat the note doesn't sound.
	r := Generate(GenParams{
		Pin:       4,
		FreqStart: 1000,
		FreqEnd:   1000,
		DutyStart: 0.5,
		DutyEnd:   0.5,
		Length:    10000,
		Value:     0.5,
	})
	last := r.Transitions[len(r.Transitions)-1]
	if last.OnMask != 0 || last.OffMask == 0 {
		t.Fatalf("last transition should park the pin low, got %+v", last)
	}
	if s := sumDelay(r.Transitions); s != 10000 {
		t.Fatalf("total delay = %d, want 10000", s)
	}
}

func TestGenerateInvalidDutyIsSilence(t *testing.T) {
	for _, duty := range []float64{0, 1, -0.1, 1.5} {
		r := Generate(GenParams{
			Pin:       4,
			FreqStart: 440,
			FreqEnd:   440,
			DutyStart: duty,
			DutyEnd:   duty,
			Length:    1000,
			Value:     1,
		})
		if len(r.Transitions) != 1 || r.Transitions[0].OnMask != 0 {
			t.Errorf("duty=%v: expected single silent transition, got %+v", duty, r.Transitions)
		}
	}
}
