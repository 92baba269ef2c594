// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package mspm0

import (
	"fmt"

	"github.com/nmenon/goocd/flash"
)

// bankCommand validates the declared base address and attaches the
// driver state. Geometry is filled in by probe.
func bankCommand(bank *flash.Bank) error {
	switch bank.Base {
	case flashBaseMain, flashBaseNonMain, flashBaseData:
	default:
		logger.Errorf("Invalid bank address 0x%08x", bank.Base)
		return flash.NewError(
			fmt.Sprintf("invalid bank address 0x%08x", bank.Base), flash.CodeFail)
	}

	bank.DriverPriv = &bankInfo{
		sectorSize: sectorSize,
		timeout:    cmdTimeout,
	}

	return nil
}

// Driver returns the mspm0 flash driver hook table.
func Driver() *flash.Driver {
	return &flash.Driver{
		Name:           "mspm0",
		BankCommand:    bankCommand,
		Erase:          erase,
		Protect:        protect,
		Write:          write,
		Read:           flash.DefaultRead,
		Probe:          probe,
		AutoProbe:      probe,
		EraseCheck:     flash.DefaultEraseCheck,
		ProtectCheck:   protectCheck,
		Info:           chipInfo,
		FreeDriverPriv: flash.DefaultFreeDriverPriv,
	}
}
