// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "time"

const (
	// 31:4 reserved
	timerM3 = 1 << 3 // M3
	timerM2 = 1 << 2 // M2
	timerM1 = 1 << 1 // M1
	timerM0 = 1 << 0 // M0
)

// Page 173
type timerCtl uint32

// timerMap is the memory mapped free-running counter used to timestamp DMA
// control block transitions during playback scheduling.
//
// Page 172.
type timerMap struct {
	ctl  timerCtl // 0x00 CS
	low  uint32   // 0x04 CLO
	high uint32   // 0x08 CHI
}

// ReadTime returns the current value of the free-running system timer as
// exposed by the bcm283x-dma driver. It returns 0 if the driver hasn't
// mapped the register yet.
//
// The counter runs at 1MHz so low alone is enough for any playback that
// fits within a ~71 minute window before it wraps.
func ReadTime() time.Duration {
	if drvDMA.timerMemory == nil {
		return 0
	}
	return time.Duration(drvDMA.timerMemory.low) * time.Microsecond
}
