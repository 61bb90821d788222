// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package headers is a registry of physical pin headers (e.g. the 40-pin
// "P1" header on a Raspberry Pi), letting callers ask where a given GPIO
// pin sits on the board and whether it is exposed on a header at all.
//
// No board package registers a header in this module: this trimmed repo
// carries only the bcm283x/pmem/videocore drivers, not a board-specific
// package like the upstream rpi one. Callers should treat IsConnected as
// always false until/unless such a package is added, and favor listing all
// pins instead of filtering on it.
package headers

import (
	"fmt"
	"sync"

	"github.com/gpiowave/player/conn/pins"
)

// All contains all the on-board headers on a micro computer.
//
// The map key is the header name, e.g. "P1", and the value is a slice of
// slice of pins. For a 2x20 header, it's a slice of [20][2]pins.Pin.
func All() map[string][][]pins.Pin {
	lock.Lock()
	defer lock.Unlock()
	return allHeaders
}

// Position returns the header name and 1-based pin position, if found.
func Position(p pins.Pin) (string, int) {
	lock.Lock()
	defer lock.Unlock()
	pos := byPin[p.String()]
	return pos.name, pos.number
}

// IsConnected returns true if the pin is on a registered header.
func IsConnected(p pins.Pin) bool {
	lock.Lock()
	defer lock.Unlock()
	return connected[p.String()]
}

// Register registers a physical header's pin layout.
func Register(name string, layout [][]pins.Pin) error {
	lock.Lock()
	defer lock.Unlock()
	if _, ok := allHeaders[name]; ok {
		return fmt.Errorf("header %q was already registered", name)
	}
	for i, line := range layout {
		for j, pin := range line {
			if pin == nil || len(pin.String()) == 0 {
				return fmt.Errorf("missing pin on header %s[%d][%d]", name, i+1, j+1)
			}
		}
	}

	allHeaders[name] = layout
	number := 1
	for _, line := range layout {
		for _, pin := range line {
			n := pin.String()
			byPin[n] = position{name, number}
			connected[n] = true
			number++
		}
	}
	return nil
}

type position struct {
	name   string
	number int
}

var (
	lock       sync.Mutex
	allHeaders = map[string][][]pins.Pin{}
	byPin      = map[string]position{}
	connected  = map[string]bool{}
)
