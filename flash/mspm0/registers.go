// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package mspm0

import "time"

// Region base addresses. A bank declaration must use one of these.
const (
	flashBaseMain    = 0x0
	flashBaseNonMain = 0x41c00000
	flashBaseData    = 0x41d00000
)

// FACTORYREGION identity registers.
const (
	factoryRegion = 0x41c40000

	regTraceID   = factoryRegion + 0x000
	regDID       = factoryRegion + 0x004
	regUserID    = factoryRegion + 0x008
	regSRAMFlash = factoryRegion + 0x018
)

// FCTL command engine registers.
const (
	flashCtrlBase = 0x400cd000

	fctlRegCmdExec    = flashCtrlBase + 0x1100
	fctlRegCmdType    = flashCtrlBase + 0x1104
	fctlRegCmdAddr    = flashCtrlBase + 0x1120
	fctlRegCmdByteEn  = flashCtrlBase + 0x1124
	fctlRegCmdData0   = flashCtrlBase + 0x1130
	fctlRegCmdWEProtA = flashCtrlBase + 0x11d0
	fctlRegCmdWEProtN = flashCtrlBase + 0x1210
	fctlRegStatCmd    = flashCtrlBase + 0x13d0
)

// FCTL_STATCMD bits.
const (
	fctlStatCmdDone = 0x00000001
	fctlStatCmdPass = 0x00000002
)

// FCTL_CMDEXEC bits.
const (
	fctlCmdExecute = 0x00000001
)

// FCTL_CMDTYPE command and size fields.
const (
	fctlCmdProgram = 0x00000001
	fctlCmdErase   = 0x00000002

	fctlCmdSizeOneWord = 0x00000000
	fctlCmdSizeSector  = 0x00000040
)

const (
	maxProtectRegs = 3

	// Each CMDWEPROT register carries 32 protection bits; a register
	// past the third has no hardware backing.
	maxSectorsPerBank = 512

	sectorSize = 0x400

	cmdTimeout       = 8000 * time.Millisecond
	keepAliveCadence = 500 * time.Millisecond
)
