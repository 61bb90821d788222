// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "testing"

func TestClockDiv_String(t *testing.T) {
	if s := clockDiv(1 << 12).String(); s != "1.0" {
		t.Fatal(s)
	}
	if s := clockDiv(1<<12 | 1).String(); s != "1.(1/4095)" {
		t.Fatal(s)
	}
}

func TestClockCtl_String(t *testing.T) {
	data := []struct {
		c clockCtl
		s string
	}{
		{passwdCtl, "PWD|GND(0Hz)"},
		{mash1 | srcOscillator, "Mash1|19.2MHz"},
		{mash2 | srcTestDebug0, "Mash2|Debug0(0Hz)"},
		{srcTestDebug1, "Debug1(0Hz)"},
		{srcPLLA, "PLLA(0Hz)"},
		{srcPLLC, "PLLC(1000MHz)"},
		{srcPLLD, "PLLD(500MHz)"},
		{srcHDMI, "HDMI(216MHz)"},
	}
	for i, line := range data {
		if s := line.c.String(); s != line.s {
			t.Fatalf("%d: got %q, want %q", i, s, line.s)
		}
	}
}

func TestFindDivisorExact(t *testing.T) {
	if m, n := findDivisorExact(clk19dot2MHz, 19200000, 1, 1); m != 1 || n != 1 {
		t.Fatal(m, n)
	}
	if m, n := findDivisorExact(clk19dot2MHz, 3, int(diviMax), 1); m != 0 || n != 0 {
		t.Fatal("expected no exact divisor for 3Hz within diviMax", m, n)
	}
}

func TestCalcSource_err(t *testing.T) {
	if _, _, _, _, err := calcSource(0, 1); err == nil {
		t.Fatal("0Hz is invalid")
	}
	if _, _, _, _, err := calcSource(25000001, 1); err == nil {
		t.Fatal("too high a frequency must fail")
	}
}

func TestCalcSource_exact(t *testing.T) {
	src, div, waits, actual, err := calcSource(4000, 32)
	if err != nil {
		t.Fatal(err)
	}
	if src != srcOscillator {
		t.Fatal(src)
	}
	if actual != 4000 {
		t.Fatal(actual)
	}
	if div == 0 || waits < 0 {
		t.Fatal(div, waits)
	}
}

func TestClock(t *testing.T) {
	c := clock{}
	if _, _, err := c.set(0, 1); err != nil {
		t.Fatal(err)
	}
	if c.setRaw(0, 0) == nil {
		t.Fatal("divisor 0 is invalid")
	}
	if c.setRaw(srcOscillator, -1) == nil {
		t.Fatal("negative divisor is invalid")
	}
}

func TestClockMap_String(t *testing.T) {
	c := clockMap{}
	if s := c.String(); s == "" {
		t.Fatal("expected non-empty representation")
	}
}

func TestSetPWMClockSource(t *testing.T) {
	defer func() {
		pwmMemory = nil
		clockMemory = nil
	}()
	if _, _, err := setPWMClockSource(10, 10); err == nil {
		t.Fatal("pwmMemory is nil")
	}
	pwmMemory = &pwmMap{}
	if _, _, err := setPWMClockSource(10, 10); err == nil {
		t.Fatal("clockMemory is nil")
	}
}
