// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package headers

import (
	"testing"

	"github.com/gpiowave/player/conn/pins"
)

func TestAll(t *testing.T) {
	if len(allHeaders) != len(All()) {
		t.Fail()
	}
}

func TestIsConnected(t *testing.T) {
	if !IsConnected(pins.V3_3) {
		t.Fatal("V3_3 should be connected")
	}
	if IsConnected(pins.V5) {
		t.Fatal("V5 should not be connected")
	}
	if !IsConnected(gpio2) {
		t.Fatal("GPIO2 should be connected")
	}
}

func TestPosition(t *testing.T) {
	name, num := Position(gpio3)
	if name != "P1" || num != 4 {
		t.Fatalf("got (%q, %d), want (\"P1\", 4)", name, num)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register("P1", [][]pins.Pin{{gpio2}}); err == nil {
		t.Fatal("re-registering P1 should fail")
	}
}

//

var (
	gpio2 = &pins.BasicPin{Name: "GPIO2"}
	gpio3 = &pins.BasicPin{Name: "GPIO3"}
)

func init() {
	if err := Register("P1", [][]pins.Pin{
		{pins.GROUND, pins.V3_3},
		{gpio2, gpio3},
	}); err != nil {
		panic(err)
	}
}
