// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
	"unsafe"

	"github.com/gpiowave/player/host/fs"
)

const osRdwrSync = os.O_RDWR | os.O_SYNC

// Slice can be transparently viewed as []byte, []uint32 or a struct.
type Slice []byte

// Bytes returns the raw memory as a slice of bytes.
func (s *Slice) Bytes() []byte {
	return []byte(*s)
}

// Uint32 returns the memory reinterpreted as a slice of uint32.
func (s *Slice) Uint32() []uint32 {
	header := *(*reflect.SliceHeader)(unsafe.Pointer(s))
	header.Len /= 4
	header.Cap /= 4
	return *(*[]uint32)(unsafe.Pointer(&header))
}

// AsPOD initializes a pointer to a POD (plain old data) to point to the
// memory mapped region.
//
// pp must be a pointer to:
//   - pointer to a base size type (uint8, int64, float32, etc)
//   - struct
//   - array of the above
//   - slice of the above
//
// and the pointed-to pointer/slice must be nil (zero value). Returns an
// error otherwise.
//
// If a pointer to a slice is passed in, it is initialized to the maximum
// number of elements this slice can represent over the backing memory.
func (s *Slice) AsPOD(pp interface{}) error {
	v := reflect.ValueOf(pp)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.New("pmem: AsPOD requires a non-nil pointer")
	}
	elem := v.Elem()
	switch elem.Kind() {
	case reflect.Ptr:
		if !elem.IsNil() {
			return errors.New("pmem: AsPOD requires the pointed-to pointer to be nil")
		}
		t := elem.Type().Elem()
		if !isPOD(t) {
			return fmt.Errorf("pmem: %s is not plain old data", t)
		}
		size := int(t.Size())
		if size > len(*s) {
			return fmt.Errorf("pmem: can't map %s (size %d) on [%d]byte", t, size, len(*s))
		}
		dest := unsafe.Pointer(((*reflect.SliceHeader)(unsafe.Pointer(s))).Data)
		elem.Set(reflect.NewAt(t, dest))
		return nil
	case reflect.Slice:
		t := elem.Type().Elem()
		if !isPOD(t) {
			return fmt.Errorf("pmem: %s is not plain old data", t)
		}
		itemSize := int(t.Size())
		if itemSize == 0 || itemSize > len(*s) {
			return fmt.Errorf("pmem: buffer is not large enough for %s", t)
		}
		n := len(*s) / itemSize
		data := ((*reflect.SliceHeader)(unsafe.Pointer(s))).Data
		header := reflect.SliceHeader{Data: data, Len: n, Cap: n}
		elem.Set(reflect.NewAt(reflect.SliceOf(t), unsafe.Pointer(&header)).Elem().Convert(elem.Type()))
		return nil
	default:
		return fmt.Errorf("pmem: AsPOD requires a pointer to a pointer or a slice, got pointer to %s", elem.Kind())
	}
}

func isPOD(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return isPOD(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPOD(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// View represents a view of physical memory mapped into user space.
//
// It is usually used to map CPU registers into user space, or to hold a
// DMA-coherent buffer allocated from the VideoCore GPU.
//
// It is not required to call Close(), the kernel will clean up on process
// shutdown.
type View struct {
	Slice
	phys uint64  // physical address backing Slice, if known
	orig []uint8 // reference rounded to the lowest 4Kb page containing Slice
}

// Close unmaps the memory from the user address space.
//
// This is done naturally by the OS on process teardown (when the process
// exits) so this is not a hard requirement to call this function.
func (v *View) Close() error {
	if v.orig == nil {
		return nil
	}
	return munmap(v.orig)
}

// PhysAddr is the physical address backing this view, if known. It is 0 for
// views that don't correspond to a single physical address, such as
// /dev/gpiomem mappings.
func (v *View) PhysAddr() uint64 {
	return v.phys
}

var _ Mem = &View{}

// MapGPIO returns a CPU specific memory mapping of the CPU I/O registers using
// /dev/gpiomem.
//
// At the moment, /dev/gpiomem is only supported on Raspbian via a specific
// kernel driver.
func MapGPIO() (*View, error) {
	if isLinux {
		return mapGPIOLinux()
	}
	return nil, errors.New("pmem: /dev/gpiomem is not supported on this platform")
}

// Map returns a memory mapped view of arbitrary physical memory range using OS
// provided functionality.
//
// Maps size of memory, rounded on a 4kb window.
//
// This function is dangerous and should be used wisely. It normally requires
// super privileges (root). On Linux, it leverages /dev/mem.
func Map(base uint64, size int) (*View, error) {
	if isLinux {
		return mapLinux(base, size)
	}
	return nil, errors.New("pmem: /dev/mem is not supported on this platform")
}

// MapAsPOD maps the physical memory range starting at base and initializes pp
// to point into it, as per Slice.AsPOD.
func MapAsPOD(base uint64, pp interface{}) error {
	v := reflect.ValueOf(pp)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Ptr {
		return errors.New("pmem: MapAsPOD requires a pointer to a nil pointer")
	}
	size := int(v.Elem().Type().Elem().Size())
	size = (size + 0xFFF) &^ 0xFFF
	if size == 0 {
		size = pageSize
	}
	view, err := Map(base, size)
	if err != nil {
		return err
	}
	return view.AsPOD(pp)
}

//

// Keep a cache of open file handles instead of opening and closing repeatedly.
var (
	mu          sync.Mutex
	gpioMemErr  error
	gpioMemView *View
	devMem      *fs.File
	devMemErr   error
)

// mapGPIOLinux is purely Raspbian specific.
func mapGPIOLinux() (*View, error) {
	mu.Lock()
	defer mu.Unlock()
	if gpioMemView == nil && gpioMemErr == nil {
		if f, err := fs.Open("/dev/gpiomem", osRdwrSync); err == nil {
			defer f.Close()
			if i, err := mmap(f.Fd(), 0, pageSize); err == nil {
				gpioMemView = &View{Slice: i, orig: i}
			} else {
				gpioMemErr = err
			}
		} else {
			gpioMemErr = err
		}
	}
	return gpioMemView, gpioMemErr
}

// mapLinux leverages /dev/mem to map a view of physical memory.
func mapLinux(base uint64, size int) (*View, error) {
	f, err := openDevMemLinux()
	if err != nil {
		return nil, err
	}
	// Align base and size at 4Kb.
	offset := int(base & 0xFFF)
	i, err := mmap(f.Fd(), int64(base&^0xFFF), (size+offset+0xFFF)&^0xFFF)
	if err != nil {
		return nil, fmt.Errorf("pmem: mapping at 0x%x failed: %v", base, err)
	}
	return &View{Slice: i[offset : offset+size], phys: base, orig: i}, nil
}

func openDevMemLinux() (*fs.File, error) {
	mu.Lock()
	defer mu.Unlock()
	if devMem == nil && devMemErr == nil {
		devMem, devMemErr = fs.Open("/dev/mem", osRdwrSync)
	}
	return devMem, devMemErr
}
