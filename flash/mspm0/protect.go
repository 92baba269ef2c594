// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package mspm0

import (
	"fmt"

	"github.com/nmenon/goocd/flash"
)

// protectRegMainMap decodes a MAIN bank sector index into its
// CMDWEPROTA..C register and bit. The first 32 sectors get one bit
// each in register 0; above that, one bit covers 8 sectors, with the
// single-bank layout skipping the 32 sectors already covered by
// register 0.
func protectRegMainMap(info *bankInfo, sector uint32) (reg, bit uint32, err error) {
	if sector < 32 {
		return 0, sector % 32, nil
	}

	// Sectors per hardware bank. Sector size is 1KiB, so the KiB count
	// is also the sector count.
	bankSize := info.mainFlashSizeKb / info.mainFlashNumBanks
	sectorInBank := sector % bankSize

	if sectorInBank < 256 {
		if info.mainFlashNumBanks == 1 {
			return 1, (sectorInBank - 32) / 8, nil
		}
		return 1, sectorInBank / 8, nil
	}

	if sectorInBank >= 512 {
		return 0, 0, flash.NewError(
			fmt.Sprintf("%s: invalid sector_in_bank %d at bank 0x%08x",
				info.name, sectorInBank, flashBaseMain),
			flash.CodeFail)
	}

	return 2, (sectorInBank - 256) / 8, nil
}

// protectRegMap maps a sector index to its protection register and bit
// for any bank kind.
func protectRegMap(bank *flash.Bank, info *bankInfo, sector uint32) (reg, bit uint32, err error) {
	switch bank.Base {
	case flashBaseNonMain:
		reg = sector / 32
		bit = sector % 32

	case flashBaseMain:
		reg, bit, err = protectRegMainMap(info, sector)
		if err != nil {
			return 0, 0, err
		}

	case flashBaseData:
		return 0, 0, flash.NewError(
			fmt.Sprintf("%s: bank protection not available at 0x%08x",
				info.name, bank.Base),
			flash.CodeFail)

	default:
		return 0, 0, flash.NewError(
			fmt.Sprintf("%s: invalid bank address 0x%08x", info.name, bank.Base),
			flash.CodeFail)
	}

	// Basic sanity checks
	if reg >= info.protectRegCount {
		return 0, 0, flash.NewError(
			fmt.Sprintf("%s: sector %d address overflows protection regs on bank 0x%08x",
				info.name, sector, bank.Base),
			flash.CodeFail)
	}
	if bit >= 32 {
		return 0, 0, flash.NewError(
			fmt.Sprintf("%s: sector %d decodes to impossible reg bit %d on bank 0x%08x",
				info.name, sector, bit, bank.Base),
			flash.CodeFail)
	}

	return reg, bit, nil
}

// readProtectRegs snapshots the live CMDWEPROTx registers in one pass.
func readProtectRegs(bank *flash.Bank, info *bankInfo) ([]uint32, error) {
	cache := make([]uint32, info.protectRegCount)
	for i := range cache {
		val, err := bank.Target.ReadU32(uint64(info.protectRegBase) + uint64(i)*4)
		if err != nil {
			return nil, err
		}
		cache[i] = val
	}
	return cache, nil
}

func writeProtectRegs(bank *flash.Bank, info *bankInfo, cache []uint32) error {
	for i, val := range cache {
		if err := bank.Target.WriteU32(uint64(info.protectRegBase)+uint64(i)*4, val); err != nil {
			return err
		}
	}
	return nil
}

// applySectorStates re-derives every sector's Protected tri-state from
// a protection register snapshot.
func applySectorStates(bank *flash.Bank, info *bankInfo, cache []uint32) {
	for i := range bank.Sectors {
		reg, bit, err := protectRegMap(bank, info, uint32(i))
		if err != nil {
			logger.Debugf("%s: Sector %d protect regmap fail: %v", info.name, i, err)
			bank.Sectors[i].Protected = flash.TriUnknown
			continue
		}
		bank.Sectors[i].Protected = flash.Tri(cache[reg]&(1<<bit) != 0)
	}
}

// protectCheck refreshes the Protected tri-state of every sector from
// hardware.
func protectCheck(bank *flash.Bank) error {
	info, err := probedPriv(bank)
	if err != nil {
		return err
	}

	for i := range bank.Sectors {
		bank.Sectors[i].Protected = flash.TriUnknown
	}

	if info.protectRegCount == 0 {
		return nil
	}

	cache, err := readProtectRegs(bank, info)
	if err != nil {
		return err
	}

	applySectorStates(bank, info, cache)
	return nil
}

// protect sets (set != 0) or clears write protection on sectors
// [first, last]. The current register values are always re-read from
// hardware first: cached sector state cannot be trusted because the
// flash engine re-arms protection behind our back.
func protect(bank *flash.Bank, set int, first, last uint32) error {
	info, err := probedPriv(bank)
	if err != nil {
		return err
	}

	if bank.Base == flashBaseData || info.protectRegCount == 0 {
		return flash.NewError(
			fmt.Sprintf("%s: bank protection not available at 0x%08x",
				info.name, bank.Base),
			flash.CodeFail)
	}

	cache, err := readProtectRegs(bank, info)
	if err != nil {
		return err
	}

	for i := first; i <= last; i++ {
		reg, bit, err := protectRegMap(bank, info, i)
		if err != nil {
			logger.Errorf("%s: Sector %d protect regmap fail: %v", info.name, i, err)
			return err
		}
		if set != 0 {
			cache[reg] |= 1 << bit
		} else {
			cache[reg] &^= 1 << bit
		}
	}

	if err := writeProtectRegs(bank, info, cache); err != nil {
		return err
	}

	// A single bit can cover up to 8 sectors, so rebuild the whole
	// sector state from the new register values.
	applySectorStates(bank, info, cache)

	return nil
}
