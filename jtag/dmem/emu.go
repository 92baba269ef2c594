// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package dmem

import (
	"fmt"

	"github.com/nmenon/goocd/jtag/adiv5"
)

// Emulated AP mode: the session script still describes the system as
// reachable through an AP, but the hardware only allows plain memory
// access to the region behind it. AP register accesses are decoded
// here into flat window accesses; CSW, TAR and friends live as shadow
// state on the adapter.

func (a *Adapter) isEmulatedAP(ap *adiv5.AccessPort) bool {
	return ap.Num <= adiv5.APSelMax && a.emuAPs.Get(int(ap.Num))
}

func (a *Adapter) emuGetReg(addr uint64) uint32 {
	return load32(a.emuWindow, addr&^armAPBPAddr31)
}

func (a *Adapter) emuSetReg(addr uint64, val uint32) {
	store32(a.emuWindow, addr&^armAPBPAddr31, val)
}

// drwAddr is the current DRW target: TAR word-aligned plus the running
// auto-increment.
func (a *Adapter) drwAddr() uint64 {
	return uint64(a.emuTAR&^0x3) + uint64(a.emuTARInc)
}

// drwAdvance applies CSW-driven auto-increment after a DRW access.
func (a *Adapter) drwAdvance() {
	if a.emuCSW&adiv5.CSWAddrIncMask != 0 {
		a.emuTARInc += (a.emuCSW & 0x03) * 2
	}
}

// bdAddr is the banked-data target: TAR aligned to 16 bytes with the
// register's lane select.
func (a *Adapter) bdAddr(reg uint32) uint64 {
	return uint64(a.emuTAR&^0xf) | uint64(reg&0x0c)
}

func (a *Adapter) latchUnknownReg(op string, reg uint32) error {
	logger.Infof("%s: Unknown reg: 0x%02x", op, reg)

	err := NewError(
		fmt.Sprintf("unknown emulated AP register 0x%02x", reg),
		CodeInvalidRegister)
	if a.retval == nil {
		a.retval = err
	}

	return err
}

func (a *Adapter) emuAPRead(reg uint32, data *uint32) error {
	switch reg {
	case adiv5.MemAPRegCSW:
		*data = a.emuCSW
	case adiv5.MemAPRegTAR:
		*data = a.emuTAR

	// CFG, BASE and IDR are not modeled; they read as zero.
	case adiv5.MemAPRegCFG:
		*data = 0
	case adiv5.MemAPRegBASE:
		*data = 0
	case adiv5.APRegIDR:
		*data = 0

	case adiv5.MemAPRegBD0, adiv5.MemAPRegBD1, adiv5.MemAPRegBD2, adiv5.MemAPRegBD3:
		*data = a.emuGetReg(a.bdAddr(reg))

	case adiv5.MemAPRegDRW:
		*data = a.emuGetReg(a.drwAddr())
		a.drwAdvance()

	default:
		return a.latchUnknownReg("emu ap read", reg)
	}

	return nil
}

func (a *Adapter) emuAPWrite(reg uint32, data uint32) error {
	switch reg {
	case adiv5.MemAPRegCSW:
		a.emuCSW = data
	case adiv5.MemAPRegTAR:
		a.emuTAR = data
		a.emuTARInc = 0

	case adiv5.MemAPRegCFG:
		a.emuCFG = data
	case adiv5.MemAPRegBASE:
		a.emuBASE = data
	case adiv5.APRegIDR:
		a.emuIDR = data

	case adiv5.MemAPRegBD0, adiv5.MemAPRegBD1, adiv5.MemAPRegBD2, adiv5.MemAPRegBD3:
		a.emuSetReg(a.bdAddr(reg), data)

	case adiv5.MemAPRegDRW:
		a.emuSetReg(a.drwAddr(), data)
		a.drwAdvance()

	default:
		return a.latchUnknownReg("emu ap write", reg)
	}

	return nil
}
