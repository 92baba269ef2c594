// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Package mspm0 implements the NOR flash driver for the TI MSPM0L and
// MSPM0G class of Cortex-M0+ microcontrollers.
//
// The flash controller re-arms sector write protection after every
// erase and program command, so each operation snapshots the live
// CMDWEPROTx registers up front and writes them back once the command
// engine reports completion.
package mspm0

import (
	"time"

	"github.com/nmenon/goocd/flash"
)

// bankInfo is the driver's per-bank state, hydrated on first probe.
// did == 0 means the bank has not been probed yet.
type bankInfo struct {
	did     uint32
	traceID uint32
	version uint8

	name string

	dataFlashSizeKb   uint32
	mainFlashSizeKb   uint32
	mainFlashNumBanks uint32
	sectorSize        uint32
	sramSizeKb        uint32

	// Flash word size: 64 bit = 8 bytes, 128 bit = 16 bytes. All known
	// parts use 8; the 16-byte path is kept for parts that may
	// advertise it.
	flashWordSizeBytes uint8

	protectRegBase  uint32
	protectRegCount uint32

	// Completion deadline for one FCTL command.
	timeout time.Duration
}

func bankPriv(bank *flash.Bank) (*bankInfo, error) {
	info, ok := bank.DriverPriv.(*bankInfo)
	if !ok || info == nil {
		return nil, flash.NewError("bank was not declared through the mspm0 driver", flash.CodeFail)
	}
	return info, nil
}

// probedPriv is bankPriv plus the not-probed gate shared by every
// operational hook.
func probedPriv(bank *flash.Bank) (*bankInfo, error) {
	info, err := bankPriv(bank)
	if err != nil {
		return nil, err
	}
	if info.did == 0 {
		return nil, flash.NewError("flash bank not probed", flash.CodeNotProbed)
	}
	return info, nil
}
