// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// The DMA controller is what makes the waveform player possible without
// burning a CPU core: a chain of control blocks toggles the GPIO set/clear
// registers at the times a waveform's transitions land, paced by the PWM
// clock, while the CPU stays free to queue the next waveform.
//
// The way it works under the hood is that the bcm283x has two registers, one
// to set a bit and one to clear a bit. Each transition gets two control
// blocks, chained via nextCB into a ring: an edge block that writes the
// GPIO set/clear registers, then a delay block that feeds the PWM FIFO; the
// PWM peripheral (paced by its own clock divider) drains that FIFO and so
// throttles how fast the DMA engine walks the ring.
//
// References
//
// Page 7:
// " Software accessing RAM directly must use physical addresses (based at
// 0x00000000). Software accessing RAM using the DMA engines must use bus
// addresses (based at 0xC0000000) " ... to skip the L1 cache.
//
// " The BCM2835 DMA Controller provides a total of 16 DMA channels. Each
// channel operates independently from the others and is internally arbitrated
// onto one of the 3 system buses. This means that the amount of bandwidth that
// a DMA channel may consume can be controlled by the arbiter settings. "
//
// The CPU has 16 DMA channels but only the first 7 (#0 to #6) can do strides.
// 7~15 have half the bandwidth ("lite" channels).
//
// DMA channel allocation:
// https://github.com/raspberrypi/linux/issues/1327

package bcm283x

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gpiowave/player"
	"github.com/gpiowave/player/host/pmem"
	"github.com/gpiowave/player/host/videocore"
)

var (
	dmaMemory    *dmaMap
	dmaChannel15 *dmaChannel
)

const (
	periphMask = 0x00FFFFFF
	periphBus  = 0x7E000000
	// dramBus is the DMA-visible uncached alias of a physical RAM address;
	// going through it bypasses the L1/L2 caches so the ARM core and the DMA
	// engine see the same bytes without manual cache maintenance.
	dramBus = 0xC0000000
	// maxLite is the maximum transfer allowed by a lite channel.
	maxLite = 65535
)

// Pages 47-50
type dmaStatus uint32

const (
	dmaReset                    dmaStatus = 1 << 31 // RESET
	dmaAbort                    dmaStatus = 1 << 30 // ABORT
	dmaDisableDebug              dmaStatus = 1 << 29 // DISDEBUG
	dmaWaitForOutstandingWrites dmaStatus = 1 << 28 // WAIT_FOR_OUTSTANDING_WRITES
	dmaPanicPriorityShift                 = 20
	dmaPanicPriorityMask        dmaStatus = 0xF << 20
	dmaPriorityShift                      = 16
	dmaPriorityMask             dmaStatus = 0xF << dmaPriorityShift
	dmaErrorStatus              dmaStatus = 1 << 8 // ERROR; must be cleared manually
	dmaWaitingForOutstandingWrites dmaStatus = 1 << 6
	dmaDreqStopsDMA             dmaStatus = 1 << 5
	dmaPaused                   dmaStatus = 1 << 4
	dmaDreq                     dmaStatus = 1 << 3
	dmaInterrupt                dmaStatus = 1 << 2 // write 1 to clear
	dmaEnd                      dmaStatus = 1 << 1 // write 1 to clear
	dmaActive                   dmaStatus = 1 << 0
)

var dmaStatusMap = []struct {
	v dmaStatus
	s string
}{
	{dmaReset, "Reset"},
	{dmaAbort, "Abort"},
	{dmaDisableDebug, "DisableDebug"},
	{dmaWaitForOutstandingWrites, "WaitForOutstandingWrites"},
	{dmaErrorStatus, "ErrorStatus"},
	{dmaWaitingForOutstandingWrites, "WaitingForOutstandingWrites"},
	{dmaDreqStopsDMA, "DreqStopsDMA"},
	{dmaPaused, "Paused"},
	{dmaDreq, "Dreq"},
	{dmaInterrupt, "Interrupt"},
	{dmaEnd, "End"},
	{dmaActive, "Active"},
}

func (d dmaStatus) String() string {
	var out []string
	for _, l := range dmaStatusMap {
		if d&l.v != 0 {
			d &^= l.v
			out = append(out, l.s)
		}
	}
	if v := d & dmaPanicPriorityMask; v != 0 {
		out = append(out, fmt.Sprintf("pp%d", v>>dmaPanicPriorityShift))
		d &^= dmaPanicPriorityMask
	}
	if v := d & dmaPriorityMask; v != 0 {
		out = append(out, fmt.Sprintf("p%d", v>>dmaPriorityShift))
		d &^= dmaPriorityMask
	}
	if d != 0 {
		out = append(out, fmt.Sprintf("dmaStatus(0x%x)", uint32(d)))
	}
	if len(out) == 0 {
		return "0"
	}
	return strings.Join(out, "|")
}

// Pages 50-52
type dmaTransferInfo uint32

const (
	dmaNoWideBursts      dmaTransferInfo = 1 << 26
	dmaWaitCyclesShift                   = 21
	dmaWaitcyclesMax                     = 0x1F
	dmaWaitCyclesMask    dmaTransferInfo = dmaWaitcyclesMax << dmaWaitCyclesShift
	dmaPerMapShift                       = 16
	dmaPerMapMask        dmaTransferInfo = 31 << dmaPerMapShift
	dmaFire              dmaTransferInfo = 0 << dmaPerMapShift
	dmaDSI               dmaTransferInfo = 1 << dmaPerMapShift
	dmaPCMTX             dmaTransferInfo = 2 << dmaPerMapShift
	dmaPCMRX             dmaTransferInfo = 3 << dmaPerMapShift
	dmaSMI               dmaTransferInfo = 4 << dmaPerMapShift
	dmaPWM               dmaTransferInfo = 5 << dmaPerMapShift
	dmaSPITX             dmaTransferInfo = 6 << dmaPerMapShift
	dmaSPIRX             dmaTransferInfo = 7 << dmaPerMapShift
	dmaBscSPIslaveTX     dmaTransferInfo = 8 << dmaPerMapShift
	dmaBscSPIslaveRX     dmaTransferInfo = 9 << dmaPerMapShift
	dmaUnused            dmaTransferInfo = 10 << dmaPerMapShift
	dmaEMMC              dmaTransferInfo = 11 << dmaPerMapShift
	dmaUARTTX            dmaTransferInfo = 12 << dmaPerMapShift
	dmaSDHost            dmaTransferInfo = 13 << dmaPerMapShift
	dmaUARTRX            dmaTransferInfo = 14 << dmaPerMapShift
	dmaDSI2              dmaTransferInfo = 15 << dmaPerMapShift
	dmaSlimBusMCTX       dmaTransferInfo = 16 << dmaPerMapShift
	dmaHDMI              dmaTransferInfo = 17 << dmaPerMapShift
	dmaSlimBusMCRX       dmaTransferInfo = 18 << dmaPerMapShift
	dmaSlimBusDC0        dmaTransferInfo = 19 << dmaPerMapShift
	dmaSlimBusDC1        dmaTransferInfo = 20 << dmaPerMapShift
	dmaSlimBusDC2        dmaTransferInfo = 21 << dmaPerMapShift
	dmaSlimBusDC3        dmaTransferInfo = 22 << dmaPerMapShift
	dmaSlimBusDC4        dmaTransferInfo = 23 << dmaPerMapShift
	dmaScalerFIFO0       dmaTransferInfo = 24 << dmaPerMapShift
	dmaScalerFIFO1       dmaTransferInfo = 25 << dmaPerMapShift
	dmaScalerFIFO2       dmaTransferInfo = 26 << dmaPerMapShift
	dmaSlimBusDC5        dmaTransferInfo = 27 << dmaPerMapShift
	dmaSlimBusDC6        dmaTransferInfo = 28 << dmaPerMapShift
	dmaSlimBusDC7        dmaTransferInfo = 29 << dmaPerMapShift
	dmaSlimBusDC8        dmaTransferInfo = 30 << dmaPerMapShift
	dmaSlimBusDC9        dmaTransferInfo = 31 << dmaPerMapShift

	dmaBurstLengthShift              = 12
	dmaBurstLengthMask  dmaTransferInfo = 0xF << dmaBurstLengthShift
	dmaSrcIgnore        dmaTransferInfo = 1 << 11
	dmaSrcDReq          dmaTransferInfo = 1 << 10
	dmaSrcWidth128      dmaTransferInfo = 1 << 9
	dmaSrcInc           dmaTransferInfo = 1 << 8
	dmaDstIgnore        dmaTransferInfo = 1 << 7
	dmaDstDReq          dmaTransferInfo = 1 << 6
	dmaDstWidth128      dmaTransferInfo = 1 << 5
	dmaDstInc           dmaTransferInfo = 1 << 4
	dmaWaitResp         dmaTransferInfo = 1 << 3
	dmaTransfer2DMode   dmaTransferInfo = 1 << 1
	dmaInterruptEnable  dmaTransferInfo = 1 << 0
)

var dmaTransferInfoMap = []struct {
	v dmaTransferInfo
	s string
}{
	{dmaNoWideBursts, "NoWideBursts"},
	{dmaSrcIgnore, "SrcIgnore"},
	{dmaSrcDReq, "SrcDReq"},
	{dmaSrcWidth128, "SrcWidth128"},
	{dmaSrcInc, "SrcInc"},
	{dmaDstIgnore, "DstIgnore"},
	{dmaDstDReq, "DstDReq"},
	{dmaDstWidth128, "DstWidth128"},
	{dmaDstInc, "DstInc"},
	{dmaWaitResp, "WaitResp"},
	{dmaTransfer2DMode, "Transfer2DMode"},
	{dmaInterruptEnable, "InterruptEnable"},
}

var dmaPerMap = []string{
	"Fire",
	"DSI",
	"PCMTX",
	"PCMRX",
	"SMI",
	"PWM",
	"SPITX",
	"SPIRX",
	"BscSPISlaveTX",
	"BscSPISlaveRX",
	"Unused",
	"EMMC",
	"UARTTX",
	"SDHOST",
	"UARTRX",
	"DSI2",
	"SlimBusMCTX",
	"HDMI",
	"SlimBusMCRX",
	"SlimBusDC0",
	"SlimBusDC1",
	"SlimBusDC2",
	"SlimBusDC3",
	"SlimBusDC4",
	"ScalerFIFO0",
	"ScalerFIFO1",
	"ScalerFIFO2",
	"SlimBusDC5",
	"SlimBusDC6",
	"SlimBusDC7",
	"SlimBusDC8",
	"SlimBusDC9",
}

func (d dmaTransferInfo) String() string {
	var out []string
	for _, l := range dmaTransferInfoMap {
		if d&l.v != 0 {
			d &^= l.v
			out = append(out, l.s)
		}
	}
	if v := d & dmaWaitCyclesMask; v != 0 {
		out = append(out, fmt.Sprintf("waits=%d", v>>dmaWaitCyclesShift))
		d &^= dmaWaitCyclesMask
	}
	if v := d & dmaBurstLengthMask; v != 0 {
		out = append(out, fmt.Sprintf("burst=%d", v>>dmaBurstLengthShift))
		d &^= dmaBurstLengthMask
	}
	out = append(out, dmaPerMap[(d&dmaPerMapMask)>>dmaPerMapShift])
	d &^= dmaPerMapMask
	if d != 0 {
		out = append(out, fmt.Sprintf("dmaTransferInfo(0x%x)", uint32(d)))
	}
	return strings.Join(out, "|")
}

// Page 55
type dmaDebug uint32

const (
	dmaLite                   dmaDebug = 1 << 28
	dmaVersionShift                    = 25
	dmaVersionMask            dmaDebug = 7 << dmaVersionShift
	dmaStateShift                      = 16
	dmaStateMask              dmaDebug = 0x1FF << dmaStateShift
	dmaIDShift                         = 8
	dmaIDMask                          = 0xFF << dmaIDShift
	dmaOutstandingWritesShift          = 4
	dmaOutstandingWritesMask           = 0xF << dmaOutstandingWritesShift
	dmaReadError              dmaDebug = 1 << 2 // clear by writing a 1
	dmaFIFOError              dmaDebug = 1 << 1 // clear by writing a 1
	dmaReadLastNotSetError    dmaDebug = 1 << 0
)

var dmaDebugMap = []struct {
	v dmaDebug
	s string
}{
	{dmaLite, "Lite"},
	{dmaReadError, "ReadError"},
	{dmaFIFOError, "FIFOError"},
	{dmaReadLastNotSetError, "ReadLastNotSetError"},
}

func (d dmaDebug) String() string {
	var out []string
	for _, l := range dmaDebugMap {
		if d&l.v != 0 {
			d &^= l.v
			out = append(out, l.s)
		}
	}
	if v := d & dmaVersionMask; v != 0 {
		out = append(out, fmt.Sprintf("v%d", uint32(v>>dmaVersionShift)))
		d &^= dmaVersionMask
	}
	if v := d & dmaStateMask; v != 0 {
		out = append(out, fmt.Sprintf("state(%x)", uint32(v>>dmaStateShift)))
		d &^= dmaStateMask
	}
	if v := d & dmaIDMask; v != 0 {
		out = append(out, fmt.Sprintf("#%x", uint32(v>>dmaIDShift)))
		d &^= dmaIDMask
	}
	if v := d & dmaOutstandingWritesMask; v != 0 {
		out = append(out, fmt.Sprintf("OutstandingWrites=%d", uint32(v>>dmaOutstandingWritesShift)))
		d &^= dmaOutstandingWritesMask
	}
	if d != 0 {
		out = append(out, fmt.Sprintf("dmaDebug(0x%x)", uint32(d)))
	}
	if len(out) == 0 {
		return "0"
	}
	return strings.Join(out, "|")
}

// 31:30 0
// 29:16 yLength (only for channels #0 to #6)
// 15:0  xLength
type dmaTransferLen uint32

// 31:16 dstStride byte increment to apply at the end of each row in 2D mode
// 15:0  srcStride byte increment to apply at the end of each row in 2D mode
type dmaStride uint32

func (d dmaStride) String() string {
	y := (d >> 16) & 0xFFFF
	if y != 0 {
		return fmt.Sprintf("0x%x,0x%x", uint32(y), uint32(d&0xFFFF))
	}
	return fmt.Sprintf("0x%x", uint32(d&0xFFFF))
}

// controlBlock is 256 bits (32 bytes) in length.
//
// https://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
// Page 40.
type controlBlock struct {
	transferInfo dmaTransferInfo // 0x00 TI
	srcAddr      uint32          // 0x04 SOURCE_AD
	dstAddr      uint32          // 0x08 DEST_AD
	txLen        dmaTransferLen  // 0x0C TXFR_LEN length in bytes
	stride       dmaStride       // 0x10 STRIDE
	nextCB       uint32          // 0x14 NEXTCONBK; 0 to stop
	reserved     [2]uint32       // 0x18+0x1C
}

// initBlock initializes a controlBlock for a single-direction transfer.
//
// l is in bytes, not in words. The side that is normal memory (not srcIO or
// dstIO) auto-increments; the GPIO set/clear registers a waveform player
// writes to are fixed addresses, so they are always marked as I/O.
//
// dreq can be dmaFire, dmaPWM, dmaPCMTX, etc. waits is the additional wait
// state between clocks, used when pacing off dmaFire doesn't apply.
func (c *controlBlock) initBlock(srcAddr, dstAddr, l uint32, srcIO, dstIO bool, dreq dmaTransferInfo, waits int) error {
	if srcIO && dstIO {
		return errors.New("only one of src and dst can be I/O")
	}
	if srcAddr == 0 && dstAddr == 0 {
		return errors.New("at least one source or destination is required")
	}
	if srcIO && srcAddr == 0 {
		return errors.New("using src as I/O requires src")
	}
	if dstIO && dstAddr == 0 {
		return errors.New("using dst as I/O requires dst")
	}
	if dreq&^dmaPerMapMask != 0 {
		return errors.New("dreq must be one of the clock source, nothing else")
	}
	if waits < 0 || waits > dmaWaitcyclesMax {
		return fmt.Errorf("waits must be between 0 and %d", dmaWaitcyclesMax)
	}
	if dreq == dmaFire && waits != 0 {
		return errors.New("using wait cycles without a clock doesn't make sense")
	}

	t := dmaNoWideBursts | dmaWaitResp
	if srcAddr == 0 {
		t |= dmaSrcIgnore
		c.srcAddr = 0
	} else {
		if srcIO {
			c.srcAddr = physToBus(srcAddr)
		} else {
			c.srcAddr = physToUncachedPhys(srcAddr)
			t |= dmaSrcInc
		}
	}
	if dstAddr == 0 {
		t |= dmaDstIgnore
		c.dstAddr = 0
	} else {
		if dstIO {
			c.dstAddr = physToBus(dstAddr)
		} else {
			c.dstAddr = physToUncachedPhys(dstAddr)
			t |= dmaDstInc
		}
	}
	if dreq != dmaFire {
		t |= dmaDstDReq | dreq | dmaTransferInfo(waits<<dmaWaitCyclesShift)
	}
	c.transferInfo = t
	c.txLen = dmaTransferLen(l)
	c.stride = 0
	c.nextCB = 0
	return nil
}

// initDelayBlock programs a control block that paces waitUS microseconds by
// draining waitUS words from a peripheral FIFO at dstAddr, each word read
// from the fixed value at srcAddr. Unlike initBlock, neither side
// auto-increments: the source is read waitUS times over, not walked forward,
// so a single command word can pace an arbitrarily long delay.
func (c *controlBlock) initDelayBlock(srcAddr, dstAddr uint32, waitUS uint32) {
	c.transferInfo = dmaNoWideBursts | dmaWaitResp | dmaDstDReq | dmaPWM
	c.srcAddr = physToUncachedPhys(srcAddr)
	c.dstAddr = physToBus(dstAddr)
	c.txLen = dmaTransferLen(4 * waitUS)
	c.stride = 0
	c.nextCB = 0
}

func (c *controlBlock) GoString() string {
	return fmt.Sprintf(
		"{\n  transferInfo: %s,\n  srcAddr:      0x%x,\n  dstAddr:      0x%x,\n  txLen:        %d,\n  stride:       %s,\n  nextCB:       0x%x,\n}",
		&c.transferInfo, c.srcAddr, c.dstAddr, c.txLen, &c.stride, c.nextCB)
}

// dmaChannel is the memory mapped registers for one DMA channel.
//
// Page 39.
type dmaChannel struct {
	cs           dmaStatus                  // 0x00 CS
	cbAddr       uint32                     // 0x04 CONNBLK_AD
	transferInfo dmaTransferInfo            // 0x08 TI (RO)
	srcAddr      uint32                     // 0x0C SOURCE_AD (RO)
	dstAddr      uint32                     // 0x10 DEST_AD (RO)
	txLen        dmaTransferLen             // 0x14 TXFR_LEN (RO)
	stride       dmaStride                  // 0x18 STRIDE (RO)
	nextCB       uint32                     // 0x1C NEXTCONBK
	debug        dmaDebug                   // 0x20 DEBUG
	reserved     [(0x100 - 0x24) / 4]uint32 // 0x24
}

func (d *dmaChannel) isAvailable() bool {
	return (d.cs&^dmaDreq) == 0 && d.cbAddr == 0
}

// reset resets the DMA channel in a way that makes it directly available.
func (d *dmaChannel) reset() {
	d.cs = dmaReset
	d.cbAddr = 0
}

// startIO initializes the DMA channel to start a transmission.
//
// It resets the channel, clears its status and DEBUG error flags from any
// prior transmission, then arms it, mirroring activate_dma's RESET ->
// clear-flags -> load-CONBLK_AD -> clear-DEBUG -> arm sequence.
func (d *dmaChannel) startIO(cb uint32) {
	d.cs = dmaReset
	d.cs = dmaInterrupt | dmaEnd
	d.cbAddr = cb
	d.debug = dmaReadError | dmaFIFOError | dmaReadLastNotSetError
	d.cs = dmaWaitForOutstandingWrites | 7<<dmaPanicPriorityShift | 7<<dmaPriorityShift | dmaActive
}

// wait waits for a DMA channel transmission to complete.
func (d *dmaChannel) wait() error {
	for d.cs&dmaActive != 0 && d.debug&(dmaReadError|dmaFIFOError|dmaReadLastNotSetError) == 0 {
	}
	if d.debug&dmaReadError != 0 {
		return errors.New("DMA read error")
	}
	if d.debug&dmaFIFOError != 0 {
		return errors.New("DMA FIFO error")
	}
	if d.debug&dmaReadLastNotSetError != 0 {
		return errors.New("DMA AIX read error")
	}
	return nil
}

func (d *dmaChannel) GoString() string {
	return fmt.Sprintf(
		"{\n  cs:           %s,\n  cbAddr:       0x%x,\n  transferInfo: %s,\n  srcAddr:      0x%x,\n  dstAddr:      0x%x,\n  txLen:        %v,\n  stride:       %s,\n  nextCB:       0x%x,\n  debug:        %s,\n  reserved:     {...},\n}",
		d.cs, d.cbAddr, d.transferInfo, d.srcAddr, d.dstAddr, d.txLen, d.stride, d.nextCB, d.debug)
}

// dmaMap is the block for the first 15 channels and control registers.
//
// Note that this modifies the DMA controllers without telling the kernel
// driver. The driver keeps its own table of which DMA channel is available
// so this could effectively crash the whole system. It practice this works.
//
// Page 40.
type dmaMap struct {
	channels  [15]dmaChannel
	padding0  [0xE0]byte
	intStatus uint32 // 0xFE0 INT_STATUS bits 15:0 mapped to controllers #15 to #0
	padding1  [0xC]byte
	enable    uint32 // 0xFF0 ENABLE bits 14:0 mapped to controllers #14 to #0
}

func indentLines(s, indent string) string {
	var out []string
	for _, x := range strings.Split(s, "\n") {
		if len(x) != 0 {
			out = append(out, indent+x)
		} else {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

func (d *dmaMap) GoString() string {
	out := []string{"{"}
	for i := range d.channels {
		out = append(out, indentLines(fmt.Sprintf("%d: %s", i, d.channels[i].GoString()+","), "  "))
	}
	out = append(out, fmt.Sprintf("  intStatus: 0x%x,", d.intStatus))
	out = append(out, fmt.Sprintf("  enable:    0x%x,", d.enable))
	out = append(out, "}")
	return strings.Join(out, "\n")
}

// pickChannel searches for a free DMA channel, scanning from the highest
// numbered channel down so full-bandwidth channels (#0-#6) are kept free for
// callers that specifically need them.
func pickChannel(blacklist ...int) (int, *dmaChannel) {
	if dmaMemory == nil {
		return -1, nil
	}
	for i := len(dmaMemory.channels) - 1; i >= 0; i-- {
		excluded := false
		for _, e := range blacklist {
			if i == e {
				excluded = true
				break
			}
		}
		if !excluded && dmaMemory.channels[i].isAvailable() {
			return i, &dmaMemory.channels[i]
		}
	}
	return -1, nil
}

// runIO picks a DMA channel, initializes it and runs a transfer to
// completion, releasing the channel as soon as it can.
func runIO(pCB pmem.Mem, liteOk bool) error {
	var blacklist []int
	if !liteOk {
		blacklist = []int{7, 8, 9, 10, 11, 12, 13, 14, 15}
	}
	id, ch := pickChannel(blacklist...)
	if ch == nil {
		return errors.New("bcm283x-dma: no channel available")
	}
	log.Printf("bcm283x-dma: using channel %d", id)
	defer ch.reset()
	ch.startIO(uint32(pCB.PhysAddr()))
	return ch.wait()
}

// allocateCB allocates a GPU-coherent buffer of size bytes, rounded up to a
// 4Kb page, and maps it as a slice of controlBlock for direct construction of
// a DMA ring.
func allocateCB(size int) ([]controlBlock, *videocore.Mem, error) {
	buf, err := videocore.Alloc((size + 0xFFF) &^ 0xFFF)
	if err != nil {
		return nil, nil, err
	}
	var cb []controlBlock
	if err := buf.AsPOD(&cb); err != nil {
		buf.Close()
		return nil, nil, err
	}
	return cb, buf, nil
}

// physToUncachedPhys returns the uncached physical memory address backing a
// physical memory address.
//
// p must be rooted at a page boundary (4096).
func physToUncachedPhys(p uint32) uint32 {
	return p | dramBus
}

func physToBus(p uint32) uint32 {
	return (p & periphMask) | periphBus
}

// smokeTest allocates two physical pages, asks the DMA controller to copy the
// data from one page to another and makes sure the content is as expected.
//
// This ensures there's at least one DMA channel available and that the
// engine can actually move bytes before the player relies on it.
func smokeTest() error {
	if dmaMemory.channels[6].debug&dmaLite != 0 {
		return errors.New("unexpected hardware: DMA channel #6 shouldn't be lite")
	}
	if dmaMemory.channels[7].debug&dmaLite == 0 {
		return errors.New("unexpected hardware: DMA channel #7 should be lite")
	}
	if dmaMemory.enable != 0x7FFF {
		return errors.New("unexpected hardware: DMA enable is not fully set")
	}

	const size = 4096 * 4 // 16kb
	const holeSize = 1    // minimum DMA alignment

	alloc := func(s int) (pmem.Mem, error) {
		return videocore.Alloc(s)
	}

	copyMem := func(pDst, pSrc uint64) error {
		pCB, err := videocore.Alloc(4096)
		if err != nil {
			return err
		}
		defer pCB.Close()
		var cb *controlBlock
		if err := pCB.AsPOD(&cb); err != nil {
			return err
		}
		if err := cb.initBlock(uint32(pSrc), uint32(pDst)+holeSize, size-2*holeSize, false, false, dmaFire, 0); err != nil {
			return err
		}
		return runIO(pCB, size-2*holeSize <= maxLite)
	}

	return pmem.TestCopy(size, holeSize, alloc, copyMem)
}

// driverDMA implements periph.Driver.
//
// It implements much more than the DMA controller: it also exposes the
// clocks, PWM and system timer registers the waveform player paces itself
// against.
type driverDMA struct {
	timerMemory *timerMap
}

func (d *driverDMA) String() string {
	return "bcm283x-dma"
}

func (d *driverDMA) Prerequisites() []string {
	return []string{"bcm283x-gpio"}
}

func (d *driverDMA) Init() (bool, error) {
	// baseAddr is initialized by the prerequisite bcm283x-gpio driver.
	if err := pmem.MapAsPOD(uint64(baseAddr+0x7000), &dmaMemory); err != nil {
		if os.IsPermission(err) {
			return true, fmt.Errorf("need more access, try as root: %v", err)
		}
		return true, err
	}
	// Channel #15 is physically removed from the other DMA channels so it
	// has a different address base.
	if err := pmem.MapAsPOD(uint64(baseAddr+0xE05000), &dmaChannel15); err != nil {
		return true, err
	}
	if err := pmem.MapAsPOD(uint64(baseAddr+0x20C000), &pwmMemory); err != nil {
		return true, err
	}
	if err := pmem.MapAsPOD(uint64(baseAddr+0x101000), &clockMemory); err != nil {
		return true, err
	}
	if err := pmem.MapAsPOD(uint64(baseAddr+0x3000), &d.timerMemory); err != nil {
		return true, err
	}
	return true, smokeTest()
}

func (d *driverDMA) Close() error {
	d.timerMemory = nil
	return nil
}

// ResetDMA resets a DMA channel, freeing it for reuse. It is exposed so the
// player can recover a channel abandoned by a crashed playback.
func ResetDMA(ch int) error {
	if ch < len(dmaMemory.channels) {
		dmaMemory.channels[ch].reset()
	} else if ch == 15 {
		dmaChannel15.reset()
	} else {
		return fmt.Errorf("invalid dma channel %d", ch)
	}
	return nil
}

// drvDMA is the singleton registered with periph; it owns the system timer
// mapping that ReadTime reads from.
var drvDMA driverDMA

func init() {
	if isArm {
		periph.MustRegister(&drvDMA)
	}
}
