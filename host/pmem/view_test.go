// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gpiowave/player/host/fs"
)

func TestSlice(t *testing.T) {
	s := Slice([]byte{4, 3, 2, 1})
	if !bytes.Equal([]byte(s), s.Bytes()) {
		t.Fatal("Slice.Bytes() is the slice")
	}

	// TODO(maruel): Assumes binary.LittleEndian. Correct if this code is ever
	// run on BigEndian.
	expected := binary.LittleEndian.Uint32(s)
	{
		v := s.Uint32()
		if len(v) != 1 || v[0] != expected {
			t.Fatalf("%v", v)
		}
		var a *[1]uint32
		if err := s.AsPOD(&a); err != nil {
			t.Fatalf("%v", err)
		}
		if a[0] != v[0] {
			t.Fatalf("%x != %x", a[0], v[0])
		}
	}

	{
		var v *simpleStruct
		if err := s.AsPOD(&v); err != nil {
			t.Fatalf("%v", err)
		}
		if v == nil {
			t.Fatal("v is nil")
		}
		if v.u != expected {
			t.Fatalf("%v", v.u)
		}
	}

	{
		var v *uint32
		if err := s.AsPOD(&v); err != nil {
			t.Fatalf("%v", err)
		}
		if *v != expected {
			t.Fatalf("%v", v)
		}
	}

	{
		var v []uint32
		if err := s.AsPOD(&v); err != nil {
			t.Fatalf("%v", err)
		}
		if len(v) != 1 || v[0] != expected {
			t.Fatalf("%v", v)
		}
	}
}

func TestSlice_Errors(t *testing.T) {
	s := Slice([]byte{4, 3, 2, 1})

	if s.AsPOD(nil) == nil {
		t.Fatal("nil is not a valid type")
	}

	{
		var v simpleStruct
		if s.AsPOD(v) == nil {
			t.Fatal("must be Ptr to Ptr")
		}
		if s.AsPOD(&v) == nil {
			t.Fatal("must be Ptr to Ptr")
		}
	}

	{
		var v *uint32
		if s.AsPOD(v) == nil {
			t.Fatal("must be Ptr to Ptr")
		}
	}

	{
		var v []interface{}
		if s.AsPOD(&v) == nil {
			t.Fatal("slice of non-POD")
		}
	}

	{
		var v *struct{ A interface{} }
		if s.AsPOD(&v) == nil {
			t.Fatal("struct of non-POD")
		}
	}
}

func TestSlice_Errors1(t *testing.T) {
	s := Slice([]byte{1})
	{
		var v *simpleStruct
		if s.AsPOD(&v) == nil {
			t.Fatal("not large enough")
		}
	}

	{
		var v *[1]uint32
		if s.AsPOD(&v) == nil {
			t.Fatal("buffer is not large enough")
		}
	}

	{
		var v []uint32
		if s.AsPOD(&v) == nil {
			t.Fatal("buffer is not large enough")
		}
	}
}

// These are really just exercising code, not real tests, since file I/O is
// inhibited by init() below.

func TestMapGPIO(t *testing.T) {
	defer reset()
	_, _ = MapGPIO()
}

func TestMap(t *testing.T) {
	defer reset()
	if v, err := Map(0, 0); v != nil || err == nil {
		t.Fatal("0 size")
	}
}

func TestMapAsPOD(t *testing.T) {
	defer reset()
	if MapAsPOD(0, nil) == nil {
		t.Fatal("nil is not a pointer")
	}
	var i *int
	if MapAsPOD(0, i) == nil {
		t.Fatal("not pointer to pointer")
	}
	x := 0
	i = &x
	if MapAsPOD(0, &i) == nil {
		t.Fatal("pointer is not nil")
	}

	var v *simpleStruct
	if MapAsPOD(0, &v) == nil {
		t.Fatal("file I/O is inhibited; otherwise it would have worked")
	}
}

func TestView(t *testing.T) {
	defer reset()
	v := View{}
	if err := v.Close(); err != nil {
		t.Fatal(err)
	}
	v.PhysAddr()
}

//

type simpleStruct struct {
	u uint32
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	gpioMemErr = nil
	gpioMemView = nil
	devMem = nil
	devMemErr = nil
	pageMap = nil
	pageMapErr = nil
}

func init() {
	fs.Inhibit()
}
