// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import "syscall"

const isLinux = true

func mmap(fd uintptr, offset int64, length int) ([]byte, error) {
	return syscall.Mmap(int(fd), offset, length, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
}

func munmap(b []byte) error {
	if b == nil {
		return nil
	}
	return syscall.Munmap(b)
}

func mlock(b []byte) error {
	return syscall.Mlock(b)
}

func munlock(b []byte) error {
	if b == nil {
		return nil
	}
	return syscall.Munlock(b)
}

// uallocMem allocates user space memory directly from the kernel via an
// anonymous mapping, so its virtual address is page aligned.
func uallocMem(size int) ([]byte, error) {
	return syscall.Mmap(-1, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_ANONYMOUS)
}
