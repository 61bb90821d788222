// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "testing"

func TestPWMMap(t *testing.T) {
	p := pwmMap{}
	p.reset()
	if _, _, err := setPWMClockSource(10, 10); err == nil {
		t.Fatal("pwmMemory is nil")
	}
	defer func() {
		pwmMemory = nil
	}()
	pwmMemory = &p
	if _, _, err := setPWMClockSource(10, 10); err == nil {
		t.Fatal("clockMemory is nil")
	}
}

func TestEnableChannel1(t *testing.T) {
	p := pwmMap{}
	p.enableChannel1(10, true)
	if p.rng1 != 10 {
		t.Fatalf("rng1 = %d, want 10", p.rng1)
	}
	if p.dmaCfg != enab|15<<8|15 {
		t.Fatalf("dmaCfg = %#x, want enab|15<<8|15", uint32(p.dmaCfg))
	}
	if p.ctl != pwen1|usef1|mode1 {
		t.Fatalf("ctl = %#x, want PWEN1|USEF1|MODE1", uint32(p.ctl))
	}
}

func TestSetupPWM(t *testing.T) {
	defer func() {
		pwmMemory = nil
	}()
	pwmMemory = nil
	if SetupPWM() == nil {
		t.Fatal("pwmMemory is nil")
	}
}
