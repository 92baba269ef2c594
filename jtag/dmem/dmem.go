// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

// Package dmem implements a DAP-direct debug transport that reaches
// CoreSight Access Ports through plain memory-mapped access instead of
// a probe: the AP register file is a window of host physical memory,
// mapped in through /dev/mem.
//
// Some processors do not expose every AP this way. For those, an AP
// index can be put on the emulation list: its MEM-AP register
// semantics are then synthesized in software against a second flat
// memory window.
package dmem

import (
	"fmt"

	"github.com/boljen/go-bitmap"

	"github.com/nmenon/goocd/jtag"
	"github.com/nmenon/goocd/jtag/adiv5"
)

const (
	defaultDevicePath = "/dev/mem"
	defaultAPOffset   = 0x100
	defaultMaxAPs     = 1

	maxEmulatedAPs = 5

	// Transactions arriving over the debug bus carry this marker in
	// address bit 31; it is not part of the physical address and is
	// masked out before any window access.
	armAPBPAddr31 = 1 << 31
)

// Adapter is the dmem debug adapter. One instance owns the device
// handle, the mapped windows and the queued-transaction error latch.
type Adapter struct {
	// Configuration, set through the dmem command subtree before Init.
	DevicePath  string
	BaseAddress uint64
	APOffset    uint32
	MaxAPs      uint8

	emuBase   uint64
	emuSize   uint64
	emuAPList []uint64
	emuAPs    bitmap.Bitmap

	mapper Mapper

	window      []byte
	virt        []byte
	mappedStart uint64
	mappedSize  uint64

	emuWindow []byte

	// First error of the current queued transaction; Run returns and
	// clears it.
	retval error

	// Emulated MEM-AP shadow registers.
	emuCSW    uint32
	emuTAR    uint32
	emuTARInc uint32
	emuCFG    uint32
	emuBASE   uint32
	emuIDR    uint32

	adiv6Flagged bool
}

// New returns an adapter with default configuration, backed by the
// real device mapper.
func New() *Adapter {
	return NewWithMapper(newDevMapper())
}

// NewWithMapper returns an adapter whose physical windows come from m.
func NewWithMapper(m Mapper) *Adapter {
	return &Adapter{
		DevicePath: defaultDevicePath,
		APOffset:   defaultAPOffset,
		MaxAPs:     defaultMaxAPs,
		emuAPs:     bitmap.New(adiv5.APSelMax + 1),
		mapper:     m,
	}
}

// SetEmulatedAPs configures the AP indices whose register semantics
// are synthesized from the emulated window.
func (a *Adapter) SetEmulatedAPs(list []uint64) error {
	if len(list) > maxEmulatedAPs {
		return NewError(
			fmt.Sprintf("at most %d emulated APs supported", maxEmulatedAPs),
			CodeBadConfig)
	}
	for _, num := range list {
		if num > adiv5.APSelMax {
			return NewError(
				fmt.Sprintf("emulated AP index %d out of range", num),
				CodeBadConfig)
		}
	}

	a.emuAPs = bitmap.New(adiv5.APSelMax + 1)
	for _, num := range list {
		a.emuAPs.Set(int(num), true)
	}
	a.emuAPList = append([]uint64(nil), list...)

	return nil
}

// SetEmulatedWindow configures the physical window the emulated APs
// decode into. Both values must be page aligned.
func (a *Adapter) SetEmulatedWindow(base, size uint64) {
	a.emuBase = base
	a.emuSize = size
}

// Init opens the device and maps the AP window, padded out to host
// page granularity on both ends. With emulated APs configured, the
// emulated window is mapped as well; any failure past the device open
// releases everything acquired so far.
func (a *Adapter) Init() error {
	if a.BaseAddress == 0 {
		logger.Error("dmem DAP Base address NOT set? value is 0")
		return NewError("dmem DAP base address not configured", CodeBadConfig)
	}

	if err := a.mapper.Open(a.DevicePath); err != nil {
		logger.Errorf("Unable to open %s", a.DevicePath)
		return NewError(
			fmt.Sprintf("unable to open %s: %v", a.DevicePath, err),
			CodeDeviceOpen)
	}

	pageSize := a.mapper.PageSize()
	windowSize := (uint64(a.MaxAPs) + 1) * uint64(a.APOffset)

	a.mappedStart = a.BaseAddress
	a.mappedSize = windowSize

	// If the start is not aligned, pull the mapping back to the
	// containing page.
	startDelta := a.BaseAddress % pageSize
	if startDelta != 0 {
		a.mappedStart -= startDelta
		a.mappedSize += startDelta
	}

	if endDelta := a.mappedSize % pageSize; endDelta != 0 {
		a.mappedSize += pageSize - endDelta
	}

	window, err := a.mapper.Map(a.mappedStart&^(pageSize-1), a.mappedSize)
	if err != nil {
		logger.Errorf("Mapping address 0x%x for 0x%x bytes failed!",
			a.mappedStart, a.mappedSize)
		a.mapper.Close()
		return NewError(
			fmt.Sprintf("mapping 0x%x (+0x%x) failed: %v", a.mappedStart, a.mappedSize, err),
			CodeMapFailed)
	}
	a.window = window
	a.virt = window[startDelta:]

	if len(a.emuAPList) > 0 {
		if a.emuBase%pageSize != 0 || a.emuSize%pageSize != 0 {
			a.Quit()
			return NewError(
				fmt.Sprintf("emulated base and size must be aligned to pagesize 0x%x", pageSize),
				CodeAlignment)
		}

		emuWindow, err := a.mapper.Map(a.emuBase&^(pageSize-1), a.emuSize)
		if err != nil {
			logger.Errorf("Mapping EMU address 0x%x for 0x%x bytes failed!",
				a.emuBase, a.emuSize)
			a.Quit()
			return NewError(
				fmt.Sprintf("mapping emulated window 0x%x (+0x%x) failed: %v",
					a.emuBase, a.emuSize, err),
				CodeMapFailed)
		}
		a.emuWindow = emuWindow
	}

	return nil
}

// Quit releases the mapped windows and the device. Unmap failures are
// logged, not returned, so teardown always runs to the end.
func (a *Adapter) Quit() error {
	if a.window != nil {
		if err := a.mapper.Unmap(a.window); err != nil {
			logger.Errorf("Failed to unmap mapped memory: %v", err)
		}
		a.window = nil
		a.virt = nil
	}

	if a.emuWindow != nil {
		if err := a.mapper.Unmap(a.emuWindow); err != nil {
			logger.Errorf("Failed to unmap emu mapped memory: %v", err)
		}
		a.emuWindow = nil
	}

	return a.mapper.Close()
}

// apRegOffset places AP index n's register file n*APOffset into the
// window.
func (a *Adapter) apRegOffset(ap *adiv5.AccessPort, reg uint32) uint64 {
	return uint64(a.APOffset)*ap.Num + uint64(reg)
}

func (a *Adapter) checkADIv6(ap *adiv5.AccessPort) error {
	if !ap.DAP.IsADIv6() {
		return nil
	}

	if !a.adiv6Flagged {
		logger.Error("ADIv6 dap not supported by dmem dap-direct mode")
		a.adiv6Flagged = true
	}

	return NewError("ADIv6 dap not supported by dmem dap-direct mode", CodeUnsupported)
}

// Connect has nothing to do: the window is the connection.
func (a *Adapter) Connect(dap *adiv5.DAP) error {
	return nil
}

// QueueDPRead services DP reads from software state. The power-up
// handshake always reports complete; everything else reads as zero.
func (a *Adapter) QueueDPRead(dap *adiv5.DAP, reg uint32, data *uint32) error {
	if data == nil {
		return nil
	}

	switch reg {
	case adiv5.DPCtrlStat:
		*data = adiv5.CDbgPwrUpAck | adiv5.CSysPwrUpAck
	default:
		*data = 0
	}

	return nil
}

// QueueDPWrite discards DP writes; there is no DP hardware behind the
// window.
func (a *Adapter) QueueDPWrite(dap *adiv5.DAP, reg uint32, data uint32) error {
	return nil
}

func (a *Adapter) QueueAPRead(ap *adiv5.AccessPort, reg uint32, data *uint32) error {
	if err := a.checkADIv6(ap); err != nil {
		return err
	}

	if a.isEmulatedAP(ap) {
		return a.emuAPRead(reg, data)
	}

	*data = load32(a.virt, a.apRegOffset(ap, reg))

	return nil
}

func (a *Adapter) QueueAPWrite(ap *adiv5.AccessPort, reg uint32, data uint32) error {
	if err := a.checkADIv6(ap); err != nil {
		return err
	}

	if a.isEmulatedAP(ap) {
		return a.emuAPWrite(reg, data)
	}

	store32(a.virt, a.apRegOffset(ap, reg), data)

	return nil
}

func (a *Adapter) QueueAPAbort(dap *adiv5.DAP, ack *uint8) error {
	return nil
}

// Run reports the first error latched since the previous Run and
// clears the latch.
func (a *Adapter) Run(dap *adiv5.DAP) error {
	retval := a.retval
	a.retval = nil
	return retval
}

// Driver returns the adapter driver table for registration.
func (a *Adapter) Driver() *jtag.Adapter {
	return &jtag.Adapter{
		Name:       "dmem",
		Transports: []string{"dapdirect_swd"},
		Commands:   a.Commands(),

		Init: a.Init,
		Quit: a.Quit,

		Reset: func(trst, srst bool) error { return nil },

		Speed: func(speed int) error { return nil },
		Khz: func(khz int) (int, error) {
			return khz, nil
		},
		SpeedDiv: func(speed int) (int, error) {
			return speed, nil
		},

		DAPSWDOps: a,
	}
}
