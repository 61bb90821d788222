// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var clockMemory *clockMap

const (
	clk19dot2MHz = 19200000
	clk500MHz    = 500000000
)

const (
	// 31:24 password
	passwdCtl clockCtl = 0x5A << 24 // PASSWD
	// 23:11 reserved
	mashMask clockCtl = 3 << 9 // MASH
	mash0    clockCtl = 0 << 9 // src_freq / divI  (ignores divF)
	mash1    clockCtl = 1 << 9
	mash2    clockCtl = 2 << 9
	mash3    clockCtl = 3 << 9 // will cause higher spread
	flip     clockCtl = 1 << 8 // FLIP
	busy     clockCtl = 1 << 7 // BUSY
	// 6 reserved
	kill          clockCtl = 1 << 5   // KILL
	enabClk       clockCtl = 1 << 4   // ENAB
	srcMask       clockCtl = 0xF << 0 // SRC
	srcGND        clockCtl = 0        // 0Hz
	srcOscillator clockCtl = 1        // 19.2MHz
	srcTestDebug0 clockCtl = 2        // 0Hz
	srcTestDebug1 clockCtl = 3        // 0Hz
	srcPLLA       clockCtl = 4        // 0Hz
	srcPLLC       clockCtl = 5        // 1000MHz (changes with overclock settings)
	srcPLLD       clockCtl = 6        // 500MHz
	srcHDMI       clockCtl = 7        // 216MHz; may be disabled
	// 8-15 == GND.
)

// clockCtl controls the clock properties.
//
// It must not be changed while busy is set or a glitch may occur.
//
// Page 107
type clockCtl uint32

func (c clockCtl) String() string {
	var out []string
	if c&0xFF000000 == passwdCtl {
		c &^= 0xFF000000
		out = append(out, "PWD")
	}
	switch c & mashMask {
	case mash1:
		out = append(out, "Mash1")
	case mash2:
		out = append(out, "Mash2")
	case mash3:
		out = append(out, "Mash3")
	default:
	}
	c &^= mashMask
	if c&flip != 0 {
		out = append(out, "Flip")
		c &^= flip
	}
	if c&busy != 0 {
		out = append(out, "Busy")
		c &^= busy
	}
	if c&kill != 0 {
		out = append(out, "Kill")
		c &^= kill
	}
	if c&enabClk != 0 {
		out = append(out, "Enable")
		c &^= enabClk
	}
	switch x := c & srcMask; x {
	case srcGND:
		out = append(out, "GND(0Hz)")
	case srcOscillator:
		out = append(out, "19.2MHz")
	case srcTestDebug0:
		out = append(out, "Debug0(0Hz)")
	case srcTestDebug1:
		out = append(out, "Debug1(0Hz)")
	case srcPLLA:
		out = append(out, "PLLA(0Hz)")
	case srcPLLC:
		out = append(out, "PLLC(1000MHz)")
	case srcPLLD:
		out = append(out, "PLLD(500MHz)")
	case srcHDMI:
		out = append(out, "HDMI(216MHz)")
	default:
		out = append(out, fmt.Sprintf("GND(%d)", x))
	}
	c &^= srcMask
	if c != 0 {
		out = append(out, fmt.Sprintf("clockCtl(%#x)", uint32(c)))
	}
	return strings.Join(out, "|")
}

const (
	// 31:24 password
	passwdDiv clockDiv = 0x5A << 24 // PASSWD
	// Integer part of the divisor
	diviShift          = 12
	diviMax   clockDiv = (1 << 12) - 1
	diviMask  clockDiv = diviMax << diviShift // DIVI
	// Fractional part of the divisor
	divfMask clockDiv = (1 << 12) - 1 // DIVF
)

// clockDiv is a 12.12 fixed point value.
//
// The fractional part generates a significant amount of phase noise so it is
// preferable to not use it.
//
// Page 108
type clockDiv uint32

func (c clockDiv) String() string {
	i := (c & diviMask) >> diviShift
	c &^= diviMask
	if c == 0 {
		return fmt.Sprintf("%d.0", i)
	}
	return fmt.Sprintf("%d.(%d/%d)", i, c, diviMax)
}

// clock is a pair of clockCtl / clockDiv controlling one clock generator.
//
// It can be set to one of the sources: srcOscillator (19.2MHz) and srcPLLD
// (500Mhz), then divided down to the value needed. Per spec the resulting
// frequency should be under 25Mhz.
type clock struct {
	ctl clockCtl
	div clockDiv
}

// findDivisorExact finds the divisors x and y that reduce srcHz exactly to
// desiredHz, favoring a high x over a high y since this leads to a more
// stable clock.
func findDivisorExact(srcHz, desiredHz uint64, x, y int) (int, int) {
	if x < y {
		panic(fmt.Errorf("%d must be >= to %d", x, y))
	}
	for j := 1; j <= y; j++ {
		if srcHz%uint64(j) != 0 {
			continue
		}
		d := srcHz / uint64(j)
		if d < desiredHz {
			break
		}
		for i := j; i <= x; i++ {
			if d%uint64(i) == 0 && d/uint64(i) == desiredHz {
				return i, j
			}
		}
	}
	return 0, 0
}

// findDivisor finds the best divisors x and y to reduce srcHz to desiredHz,
// oversampling if no exact divisor exists.
//
// Returns divisors x, y, the actual selected frequency and the absolute
// error versus desiredHz.
func findDivisor(srcHz, desiredHz uint64, x, y int) (int, int, uint64, uint64) {
	if m, n := findDivisorExact(srcHz, desiredHz, x, y); m != 0 {
		return m, n, desiredHz, 0
	}
	for i := uint64(2); ; i++ {
		d := i * desiredHz
		if d > 100000 && i > 10 {
			break
		}
		if m, n := findDivisorExact(srcHz, d, x, y); m != 0 {
			return m, n, d, 0
		}
	}
	desiredHz *= 100
	srcHz *= 100
	minErr := uint64(0xFFFFFFFFFFFFFFF)
	m, n := 0, 0
	selected := uint64(0)
	for i := 1; i <= x; i++ {
		maxY := y
		if maxY > i {
			maxY = i
		}
		for j := 1; j <= maxY; j++ {
			actual := (srcHz / uint64(i)) / uint64(j)
			var err uint64
			if actual > desiredHz {
				err = actual - desiredHz
			} else {
				err = desiredHz - actual
			}
			if minErr > err {
				minErr = err
				selected = actual
				m = i
				n = j
			}
		}
	}
	return m, n, selected / 100, minErr / 100
}

// calcSource chooses the clock source and the two divisors that get closest
// to the desired frequency.
//
// It returns the source, the clock divisor x, the second divisor y, the
// actual frequency and an error. clock.set turns y into the wait cycles
// ("y minus 1") a DMA control block driven off this clock must specify so
// the DMA engine doesn't outrun the clock.
func calcSource(hz uint64, maxDiv int) (clockCtl, int, int, uint64, error) {
	if hz == 0 {
		return 0, 0, 0, 0, errors.New("bcm283x-clock: 0Hz is not a valid clock source")
	}
	if hz > 25000000 {
		return 0, 0, 0, 0, fmt.Errorf("bcm283x-clock: desired frequency %dHz is too high", hz)
	}
	// http://elinux.org/BCM2835_datasheet_errata states that srcOscillator
	// is the cleanest clock source so try it first.
	x19, y19, actual19, rest19 := findDivisor(clk19dot2MHz, hz, int(diviMax), maxDiv)
	if rest19 == 0 {
		return srcOscillator, x19, y19, actual19, nil
	}
	x500, y500, actual500, rest500 := findDivisor(clk500MHz, hz, int(diviMax), maxDiv)
	if rest500 == 0 {
		return srcPLLD, x500, y500, actual500, nil
	}
	if rest19 < rest500 {
		return srcOscillator, x19, y19, actual19, nil
	}
	return srcPLLD, x500, y500, actual500, nil
}

// set changes the clock frequency to the desired value, or the closest one
// reachable given maxOversample.
//
// hz == 0 disables the clock. Returns the actual frequency selected and the
// wait-cycles value ("div minus 1") a paced DMA transfer off this clock
// should use.
func (c *clock) set(hz uint64, maxOversample int) (uint64, int, error) {
	if hz == 0 {
		c.ctl = passwdCtl | kill
		for c.ctl&busy != 0 {
		}
		return 0, 0, nil
	}
	ctl, div, div2, actual, err := calcSource(hz, maxOversample)
	if err != nil {
		return 0, 0, err
	}
	return actual, div2 - 1, c.setRaw(ctl, div)
}

// setRaw sets the clock speed using the given clock source and integer
// divisor, following the stop/wait/set/wait/enable dance required by the
// datasheet to avoid glitches (page 107).
func (c *clock) setRaw(ctl clockCtl, div int) error {
	if div < 1 || div > int(diviMax) {
		return errors.New("invalid clock divisor")
	}
	if ctl != srcOscillator && ctl != srcPLLD {
		return errors.New("invalid clock control")
	}
	for c.ctl&busy != 0 {
		c.ctl = passwdCtl | kill
	}
	d := clockDiv(div << diviShift)
	c.div = passwdDiv | d
	for start := time.Now(); time.Since(start) < 10*time.Nanosecond; {
	}
	c.ctl = passwdCtl | ctl
	for start := time.Now(); time.Since(start) < 10*time.Nanosecond; {
	}
	c.ctl = passwdCtl | ctl | enabClk
	if c.div != d {
		return errors.New("can't write to clock divisor CPU register")
	}
	return nil
}

func (c *clock) String() string {
	return fmt.Sprintf("{%s, %s}", c.ctl, c.div)
}

// clockMap is the memory mapped clock manager registers.
//
// Clock #1 (gp1) must not be touched since it is used by the ethernet
// controller on boards that have one.
//
// Page 107 for gp0~gp2.
// https://scribd.com/doc/127599939/BCM2835-Audio-clocks for PCM/PWM.
type clockMap struct {
	reserved0 [0x70 / 4]uint32          //
	gp0       clock                     // CM_GP0CTL+CM_GP0DIV; 0x70-0x74 (125MHz max)
	gp1ctl    uint32                    // CM_GP1CTL+CM_GP1DIV; 0x78-0x7A must not use (used by ethernet)
	gp1div    uint32                    // CM_GP1CTL+CM_GP1DIV; 0x78-0x7A must not use (used by ethernet)
	gp2       clock                     // CM_GP2CTL+CM_GP2DIV; 0x80-0x84 (125MHz max)
	reserved1 [(0x98 - 0x88) / 4]uint32 // 0x88-0x94
	pcm       clock                     // CM_PCMCTL+CM_PCMDIV 0x98-0x9C
	pwm       clock                     // CM_PWMCTL+CM_PWMDIV 0xA0-0xA4
}

func (c *clockMap) String() string {
	return fmt.Sprintf("{\n  gp0: %s,\n  gp1: {%s, %s}\n  gp2: %s,\n  pcm: %s,\n  pwm: %s,\n}", &c.gp0, clockCtl(c.gp1ctl), clockDiv(c.gp1div), &c.gp2, &c.pcm, &c.pwm)
}

// setPWMClockSource configures the PWM clock generator to run as close to hz
// as possible, oversampling up to maxOversample times if there's no exact
// divisor. It returns the frequency actually selected and the wait-cycles
// value DMA control blocks paced off PWM should use.
func setPWMClockSource(hz uint64, maxOversample int) (uint64, int, error) {
	if pwmMemory == nil {
		return 0, 0, errors.New("bcm283x-pwm: subsystem not initialized")
	}
	if clockMemory == nil {
		return 0, 0, errors.New("bcm283x-clock: subsystem not initialized")
	}
	return clockMemory.pwm.set(hz, maxOversample)
}
