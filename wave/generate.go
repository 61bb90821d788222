// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wave

import "math"

// GenParams bundles one beat's worth of wave generator input for a single
// pin. FreqStart/FreqEnd and DutyStart/DutyEnd describe linear (duty) or
// exponential (frequency) slides across the beat; the Delay windows bound
// when, in microseconds from beat start, each slide runs.
type GenParams struct {
	Pin int

	FreqStart, FreqEnd           float64
	FreqDelayStart, FreqDelayEnd uint32

	DutyStart, DutyEnd           float64
	DutyDelayStart, DutyDelayEnd uint32

	VibratoIntensity float64 // cents
	VibratoWidth     uint32  // microseconds
	TremoloIntensity float64
	TremoloWidth     uint32 // microseconds

	Length uint32  // beat length in microseconds, L
	Value  float64 // fraction (0,1] of the beat that carries sound

	Continuity Continuity
}

// Result is the outcome of one Generate call: the transitions for this
// beat, plus the continuity state the following beat should carry.
type Result struct {
	Transitions []Transition
	Continuity  Continuity
	Micros      uint32
}

// Generate produces one pin's transition sequence for a single beat,
// per §4.3: frequency/duty interpolation, vibrato, tremolo, and the note
// "value" silent tail.
func Generate(p GenParams) Result {
	vWidth := p.VibratoWidth
	if vWidth == 0 {
		vWidth = 1
	}
	tWidth := p.TremoloWidth
	if tWidth == 0 {
		tWidth = 1
	}

	mask := uint32(1) << uint(p.Pin)
	c := p.Continuity
	microsLeft := p.Length - c.WOffset

	if p.FreqStart == 0 || p.DutyStart <= 0 || p.DutyStart >= 1 || p.DutyEnd <= 0 || p.DutyEnd >= 1 {
		return Result{
			Transitions: []Transition{{OffMask: mask, DelayUS: microsLeft}},
			Continuity:  Continuity{WOn: true},
			Micros:      microsLeft,
		}
	}

	wOn := bit(c.WOn)
	var out []Transition

	if c.WOffset > 0 {
		// The filler transition continues the previous beat's half-cycle,
		// so its polarity matches the carried w_on parity directly (the
		// generator's internal edge counter is still at its zero start).
		t := Transition{DelayUS: c.WOffset}
		if wOn&1 == 0 {
			t.OnMask = mask
		} else {
			t.OffMask = mask
		}
		out = append(out, t)
	}

	parity := 0
	var halfPeriod uint32
	vfac := 0.0
	for vfac <= p.Value {
		elapsed := p.Length - microsLeft
		freq := vibrato(
			interpolateFreq(p.FreqStart, p.FreqEnd, slideFactor(elapsed, p.FreqDelayStart, p.FreqDelayEnd)),
			p.VibratoIntensity, vWidth, elapsed+c.VOffset)
		duty := tremolo(
			interpolateDuty(p.DutyStart, p.DutyEnd, slideFactor(elapsed, p.DutyDelayStart, p.DutyDelayEnd)),
			p.TremoloIntensity, tWidth, elapsed+c.TOffset)

		halfPeriod = uint32(1000000 / (2 * freq))
		onUS := uint32(2 * float64(halfPeriod) * duty)
		offUS := 2*halfPeriod - onUS

		rising := parity&1 != wOn&1
		if rising {
			out = append(out, Transition{OnMask: mask, DelayUS: onUS})
			microsLeft -= onUS
			if microsLeft < offUS {
				c.WOffset = offUS - microsLeft
				break
			}
		} else {
			out = append(out, Transition{OffMask: mask, DelayUS: offUS})
			microsLeft -= offUS
			if microsLeft < onUS {
				c.WOffset = onUS - microsLeft
				break
			}
		}
		parity++
		vfac = float64(p.Length-microsLeft) / float64(p.Length)
	}

	elapsed := p.Length - microsLeft
	c.VOffset = elapsed % vWidth
	c.TOffset = elapsed % tWidth

	finalWOnBit := wOn
	if microsLeft > 0 && vfac <= p.Value {
		// The note's sounding fraction ran out mid half-cycle: one more
		// transition of exactly the remaining length finishes the beat.
		elapsed = p.Length - microsLeft
		freq := vibrato(
			interpolateFreq(p.FreqStart, p.FreqEnd, slideFactor(elapsed, p.FreqDelayStart, p.FreqDelayEnd)),
			p.VibratoIntensity, vWidth, elapsed+c.VOffset)
		halfPeriod = uint32(1000000 / (2 * freq))

		parity++
		if parity&1 != wOn&1 {
			out = append(out, Transition{OnMask: mask, DelayUS: microsLeft})
		} else {
			out = append(out, Transition{OffMask: mask, DelayUS: microsLeft})
		}
	} else if microsLeft > 0 {
		// The note value was reached before the beat ended: park the pin
		// low for the silent tail.
		parity = 0
		finalWOnBit = 0
		c.WOffset = 0
		out = append(out, Transition{OffMask: mask, DelayUS: microsLeft})
	}

	c.WOn = parity&1 == finalWOnBit&1
	if c.WOffset == halfPeriod {
		// A tail exactly one half-period long carries no information; drop
		// it so the next beat doesn't start with a degenerate filler edge.
		c.WOffset = 0
	}

	return Result{Transitions: out, Continuity: c, Micros: p.Length}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// slideFactor normalizes elapsed into [0,1] across [start,end], clamping
// at both ends. A zero-width window is treated as already complete.
func slideFactor(elapsed, start, end uint32) float64 {
	if end <= start {
		return 1
	}
	e := int64(elapsed)
	s, en := int64(start), int64(end)
	if e > en {
		e = en
	}
	if e < s {
		e = s
	}
	return float64(e-s) / float64(en-s)
}

func interpolateFreq(start, end, factor float64) float64 {
	return start * math.Pow(end/start, factor)
}

func interpolateDuty(start, end, factor float64) float64 {
	return start + (end-start)*factor
}

// vibrato applies a 4-phase triangle modulation (up, back, down, back) to
// base over a vWidth-microsecond period.
func vibrato(base, intensity float64, width, us uint32) float64 {
	if intensity == 0 || width == 0 {
		return base
	}
	phase := 4 * float64(us) / float64(width)
	step := uint32(phase)
	frac := phase - float64(step)
	ratio := math.Pow(2, intensity/1200)
	switch step % 4 {
	case 0:
		return interpolateFreq(base, base*ratio, frac)
	case 1:
		return interpolateFreq(base*ratio, base, frac)
	case 2:
		return interpolateFreq(base, base/ratio, frac)
	default:
		return interpolateFreq(base/ratio, base, frac)
	}
}

// tremolo applies the same 4-phase triangle to a duty cycle, linearly.
func tremolo(base, intensity float64, width, us uint32) float64 {
	if intensity == 0 || width == 0 {
		return base
	}
	phase := 4 * float64(us) / float64(width)
	step := uint32(phase)
	frac := phase - float64(step)
	switch step % 4 {
	case 0:
		return interpolateDuty(base, base+intensity, frac)
	case 1:
		return interpolateDuty(base+intensity, base, frac)
	case 2:
		return interpolateDuty(base, base-intensity, frac)
	default:
		return interpolateDuty(base-intensity, base, frac)
	}
}
