// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package player renders queued per-pin note sequences into square waves
// and streams them out through a DMA control-block ring, matching the
// original player's queue_add/queue_play semantics.
package player

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gpiowave/player/conn/gpio"
	"github.com/gpiowave/player/conn/gpio/gpioreg"
	"github.com/gpiowave/player/host/bcm283x"
	"github.com/gpiowave/player/wave"
)

// Pages mirrors the original's PAGES constant: the control-block ring is
// sized to this many 4Kb pages' worth of blocks, giving a capacity of
// Capacity control blocks, or Capacity/2 transitions. The command-word
// buffer is not sized in pages: it holds one word per transition, so
// Capacity/2 words.
const Pages = 128

// Capacity is the control-block ring's fixed size in blocks (two per
// transition).
const Capacity = 128 * Pages

const transitionSlots = Capacity / 2

// Misc carries the optional per-beat modifiers for one voice's one beat, as
// described in the beat/voice queue data model: note value, pitch/duty
// slides, vibrato and tremolo. A nil Misc means none of these apply.
type Misc struct {
	// Value is the fraction (0,1] of the beat that sounds; 0 means "use 1".
	Value float64

	UsingPitchSlide bool
	SlideFreq       float64 // the slide's final target frequency, in Hz
	SlideStart      float64 // fraction of a beat, slide start offset
	SlideEnd        float64 // fraction of a beat, slide end offset

	UsingDutySlide bool
	SlideDuty      float64
	DutySlideStart float64
	DutySlideEnd   float64

	UsingVibrato     bool
	VibratoIntensity float64 // cents
	VibratoWidth     uint32  // microseconds

	UsingTremolo     bool
	TremoloIntensity float64
	TremoloWidth     uint32 // microseconds

	// BeatUS, if non-zero, changes the beat length starting the next beat.
	BeatUS uint32
}

// voice is one registered pin's note sequence plus the scheduler state
// carried between beats.
type voice struct {
	num  int
	pin  gpio.PinIO
	mask uint32

	freqs  []float64
	duties []float64
	misc   []*Misc

	continuity wave.Continuity

	inPitchSlide   bool
	initF, endF    float64
	freqAS, freqAE float64
	freqTo         float64

	inDutySlide    bool
	initD, endD    float64
	dutyAS, dutyAE float64
	dutyTo         float64

	vibratoIntensity float64
	vibratoWidth     uint32
	tremoloIntensity float64
	tremoloWidth     uint32
}

// Queue is a set of registered voices ready to be rendered and streamed
// through a DMA ring.
type Queue struct {
	tr    *Transmitter
	ring  *bcm283x.Ring
	byNum map[int]*voice
	order []*voice
}

// Open claims pins for output and allocates the DMA control-block ring,
// ready for Add/Play. The caller must have already run periph's host init
// (so the bcm283x driver is registered) before calling Open.
func Open(pins ...int) (*Queue, error) {
	if len(pins) == 0 {
		return nil, errors.New("player: at least one pin is required")
	}
	if err := bcm283x.SetupPWM(); err != nil {
		return nil, fmt.Errorf("player: bringing up PWM: %w", err)
	}
	r, err := bcm283x.NewRing(transitionSlots)
	if err != nil {
		return nil, err
	}
	q := &Queue{tr: NewTransmitter(r), ring: r, byNum: map[int]*voice{}}
	for _, n := range pins {
		p := gpioreg.ByName(strconv.Itoa(n))
		if p == nil {
			r.Close()
			return nil, fmt.Errorf("player: no such pin %d", n)
		}
		if err := p.Out(gpio.Low); err != nil {
			r.Close()
			return nil, fmt.Errorf("player: setting pin %d to output: %w", n, err)
		}
		v := &voice{num: n, pin: p, mask: 1 << uint(n), continuity: wave.Initial}
		q.byNum[n] = v
		q.order = append(q.order, v)
	}
	return q, nil
}

// Add registers one voice's note sequences. freqs and duties must have
// equal length (one entry per beat); misc may be nil, or shorter than
// freqs/duties with nil entries standing in for the rest.
func (q *Queue) Add(pin int, freqs, duties []float64, misc []*Misc) error {
	v, ok := q.byNum[pin]
	if !ok {
		return fmt.Errorf("player: pin %d was not passed to Open", pin)
	}
	if len(freqs) != len(duties) {
		return errors.New("player: freqs and duties must have equal length")
	}
	v.freqs, v.duties, v.misc = freqs, duties, misc
	return nil
}

// mth returns the beat-th Misc for a voice, or nil if none was supplied.
func (v *voice) mth(beat int) *Misc {
	if beat >= len(v.misc) {
		return nil
	}
	return v.misc[beat]
}

// Play renders and transmits beatUS-long beats for every registered voice,
// for beats total beats, then stops the DMA engine, parks every voice's pin
// low, and resets all queue state so the Queue can be reused.
func (q *Queue) Play(beatUS uint32, beats int) error {
	us := beatUS
	var changeUS uint32

	for b := 0; b < beats; b++ {
		if changeUS != 0 {
			us = changeUS
			changeUS = 0
		}

		var combined []wave.Transition
		first := true
		for _, v := range q.order {
			if b >= len(v.freqs) {
				continue
			}
			m := v.mth(b)

			freqStart, freqEnd, freqDS, freqDE := v.resolveFreq(b, us, m)
			dutyStart, dutyEnd, dutyDS, dutyDE := v.resolveDuty(b, us, m)
			v.resolveModulation(m)

			value := 1.0
			if m != nil && m.Value != 0 {
				value = m.Value
			}
			if m != nil && m.BeatUS != 0 {
				changeUS = m.BeatUS
			}

			res := wave.Generate(wave.GenParams{
				Pin:              v.num,
				FreqStart:        freqStart,
				FreqEnd:          freqEnd,
				FreqDelayStart:   freqDS,
				FreqDelayEnd:     freqDE,
				DutyStart:        dutyStart,
				DutyEnd:          dutyEnd,
				DutyDelayStart:   dutyDS,
				DutyDelayEnd:     dutyDE,
				VibratoIntensity: v.vibratoIntensity,
				VibratoWidth:     v.vibratoWidth,
				TremoloIntensity: v.tremoloIntensity,
				TremoloWidth:     v.tremoloWidth,
				Length:           us,
				Value:            value,
				Continuity:       v.continuity,
			})
			v.continuity = res.Continuity
			combined = wave.Combine(combined, res.Transitions, first)
			first = false
		}
		if combined == nil {
			continue
		}
		if err := q.tr.Send(combined); err != nil {
			return err
		}
	}

	for !q.tr.Idle() {
		time.Sleep(time.Millisecond)
	}
	q.tr.Stop()

	var err error
	for _, v := range q.order {
		if e := v.pin.Out(gpio.Low); e != nil && err == nil {
			err = e
		}
		*v = voice{num: v.num, pin: v.pin, mask: v.mask, continuity: wave.Initial}
	}
	return err
}

// resolveFreq implements the pitch-slide half of the per-beat scheduling
// step: the beat's starting frequency picks up where the previous beat's
// slide left off, and the ending frequency is re-targeted along an
// exponential slide line spanning possibly many beats.
func (v *voice) resolveFreq(beat int, us uint32, m *Misc) (start, end float64, delayStart, delayEnd uint32) {
	nominal := v.freqs[beat]
	start = nominal
	if v.inPitchSlide {
		start = v.freqTo
	}
	end = nominal
	delayStart, delayEnd = 0, us

	if !v.inPitchSlide && (m == nil || !m.UsingPitchSlide) {
		return
	}
	if !v.inPitchSlide {
		v.inPitchSlide = true
		v.initF = nominal
		v.endF = m.SlideFreq
		v.freqAS = float64(beat) + m.SlideStart
		v.freqAE = float64(beat) + m.SlideEnd
		delayStart = clampUS(m.SlideStart*float64(us), us)
		delayEnd = clampUS(m.SlideEnd*float64(us), us)
	}
	fac := beatSlideFactor(float64(beat+1), v.freqAS, v.freqAE)
	end = interpFreq(v.initF, v.endF, fac)
	v.freqTo = end
	if fac >= 1 {
		v.inPitchSlide = false
	}
	return
}

// resolveDuty mirrors resolveFreq for duty-cycle slides. Unlike frequency,
// the slide line is linear, matching the per-beat generator's own
// interpolateDuty rather than the exponential formula.
func (v *voice) resolveDuty(beat int, us uint32, m *Misc) (start, end float64, delayStart, delayEnd uint32) {
	nominal := v.duties[beat]
	start = nominal
	if v.inDutySlide {
		start = v.dutyTo
	}
	end = nominal
	delayStart, delayEnd = 0, us

	if !v.inDutySlide && (m == nil || !m.UsingDutySlide) {
		return
	}
	if !v.inDutySlide {
		v.inDutySlide = true
		v.initD = nominal
		v.endD = m.SlideDuty
		v.dutyAS = float64(beat) + m.DutySlideStart
		v.dutyAE = float64(beat) + m.DutySlideEnd
		delayStart = clampUS(m.DutySlideStart*float64(us), us)
		delayEnd = clampUS(m.DutySlideEnd*float64(us), us)
	}
	fac := beatSlideFactor(float64(beat+1), v.dutyAS, v.dutyAE)
	end = interpDuty(v.initD, v.endD, fac)
	v.dutyTo = end
	if fac >= 1 {
		v.inDutySlide = false
	}
	return
}

// resolveModulation updates the voice's remembered vibrato/tremolo
// parameters when this beat specifies new ones, else leaves them as is.
func (v *voice) resolveModulation(m *Misc) {
	if m != nil && m.UsingVibrato {
		v.vibratoIntensity = m.VibratoIntensity
		v.vibratoWidth = m.VibratoWidth
	}
	if m != nil && m.UsingTremolo {
		v.tremoloIntensity = m.TremoloIntensity
		v.tremoloWidth = m.TremoloWidth
	}
}

func clampUS(v float64, max uint32) uint32 {
	if v < 0 {
		return 0
	}
	if v > float64(max) {
		return max
	}
	return uint32(v)
}

// beatSlideFactor normalizes beat+1 into [0,1] across [as,ae], the absolute
// beat-numbered span of a multi-beat slide. A zero-width span is treated as
// already complete, matching the generator's own slideFactor guard.
func beatSlideFactor(beatPlus1, as, ae float64) float64 {
	if ae <= as {
		return 1
	}
	f := (beatPlus1 - as) / (ae - as)
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

func interpFreq(start, end, factor float64) float64 {
	return start * math.Pow(end/start, factor)
}

func interpDuty(start, end, factor float64) float64 {
	return start + (end-start)*factor
}
