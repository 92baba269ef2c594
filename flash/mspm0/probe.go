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

// extractVal pulls bits [hi:lo] out of a register value.
func extractVal(val uint32, hi, lo uint8) uint32 {
	mask := uint32(0xffffffff) >> (31 - (hi - lo))
	return (val >> lo) & mask
}

// readPartInfo reads the FACTORYREGION identity registers and decodes
// them into the bank state. It only reads, so the target does not have
// to be halted.
func readPartInfo(bank *flash.Bank) error {
	info, err := bankPriv(bank)
	if err != nil {
		return err
	}

	t := bank.Target

	did, err := t.ReadU32(regDID)
	if err != nil {
		return err
	}
	traceID, err := t.ReadU32(regTraceID)
	if err != nil {
		return err
	}
	userID, err := t.ReadU32(regUserID)
	if err != nil {
		return err
	}
	flashRAM, err := t.ReadU32(regSRAMFlash)
	if err != nil {
		return err
	}

	version := uint8(extractVal(did, 31, 28))
	partNum := uint16(extractVal(did, 27, 12))
	variant := uint8(extractVal(userID, 23, 16))
	part := uint16(extractVal(userID, 15, 0))

	// A valid die always has the ALWAYS_1 indicator set.
	if did&0x1 == 0 {
		logger.Warnf("Unknown Device ID[0x%08x], cannot identify target", did)
		logger.Debugf("did 0x%08x, traceid 0x%08x, userid 0x%08x, flashram 0x%08x",
			did, traceID, userID, flashRAM)
		return flash.NewError(
			fmt.Sprintf("malformed device ID 0x%08x", did), flash.CodeOperationFailed)
	}

	family := lookupFamily(partNum)
	if family == nil {
		logger.Warnf("Unsupported DeviceID[0x%04x], cannot identify target", partNum)
		logger.Debugf("did 0x%08x, traceid 0x%08x, userid 0x%08x, flashram 0x%08x",
			did, traceID, userID, flashRAM)
		logger.Debugf("Part 0x%04x, Part Num 0x%04x, Variant 0x%02x, version 0x%x",
			part, partNum, variant, version)
		return flash.NewError(
			fmt.Sprintf("unsupported device family 0x%04x", partNum),
			flash.CodeOperationFailed)
	}

	if pinfo := family.lookupPart(part, variant); pinfo != nil {
		info.name = pinfo.name
		logger.Debugf("Part: %s detected", info.name)
	} else {
		// Known family, unknown orderable: proceed under the family
		// name so the flash geometry decode below still applies.
		info.name = family.name
		logger.Warnf("Unidentified PART[0x%04x]/variant[0x%02x], known DeviceID[0x%04x]. Attempting to proceed as %s.",
			part, variant, partNum, info.name)
	}

	info.did = did
	info.traceID = traceID
	info.version = version
	info.dataFlashSizeKb = extractVal(flashRAM, 31, 26)
	info.mainFlashSizeKb = extractVal(flashRAM, 11, 0)
	info.mainFlashNumBanks = extractVal(flashRAM, 13, 12) + 1
	info.sramSizeKb = extractVal(flashRAM, 25, 16)

	// Hardcoded until a part advertises otherwise; the datasheets note
	// the flash word as 64 bits plus ECC on every current device.
	info.flashWordSizeBytes = 8

	logger.Debugf("Detected: main flash: %dKiB in %d banks, sram: %dKiB, data flash: %dKiB",
		info.mainFlashSizeKb, info.mainFlashNumBanks, info.sramSizeKb,
		info.dataFlashSizeKb)

	return nil
}

func makeSectors(size, count uint32) []flash.Sector {
	sectors := make([]flash.Sector, count)
	if count == 0 {
		return sectors
	}

	sectorSize := size / count
	for i := range sectors {
		sectors[i].Offset = uint32(i) * sectorSize
		sectors[i].Size = sectorSize
		sectors[i].Erased = flash.TriUnknown
		sectors[i].Protected = flash.TriUnknown
	}
	return sectors
}

// probe identifies the chip and sizes the bank. It is idempotent: once
// the device ID is latched, subsequent calls return immediately.
func probe(bank *flash.Bank) error {
	info, err := bankPriv(bank)
	if err != nil {
		return err
	}

	if info.did != 0 {
		return nil
	}

	if err := readPartInfo(bank); err != nil {
		return err
	}

	switch bank.Base {
	case flashBaseNonMain:
		bank.Size = 512
		info.protectRegBase = fctlRegCmdWEProtN
		info.protectRegCount = 1
		bank.Sectors = makeSectors(bank.Size, 1)

	case flashBaseMain:
		bank.Size = info.mainFlashSizeKb * 1024
		numSectors := bank.Size / info.sectorSize

		// Three protection registers cover at most 512 sectors per
		// bank; anything larger cannot be mapped, so refuse it here
		// rather than fail sector decode later.
		if numSectors/info.mainFlashNumBanks > maxSectorsPerBank {
			info.did = 0
			return flash.NewError(
				fmt.Sprintf("%s: %d sectors per bank exceeds the protection register range",
					info.name, numSectors/info.mainFlashNumBanks),
				flash.CodeFail)
		}

		info.protectRegBase = fctlRegCmdWEProtA
		info.protectRegCount = maxProtectRegs
		bank.Sectors = makeSectors(bank.Size, numSectors)

	case flashBaseData:
		if info.dataFlashSizeKb == 0 {
			logger.Errorf("%s: Data region NOT available!", info.name)
			bank.Size = 0
			bank.Sectors = nil
			return nil
		}
		bank.Size = info.mainFlashSizeKb * 1024
		info.protectRegCount = 0
		bank.Sectors = makeSectors(bank.Size, bank.Size/info.sectorSize)

	default:
		return flash.NewError(
			fmt.Sprintf("%s: invalid bank address 0x%08x", info.name, bank.Base),
			flash.CodeFail)
	}

	return nil
}

// chipInfo renders the human summary of a probed chip.
func chipInfo(bank *flash.Bank) (string, error) {
	info, err := probedPriv(bank)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"\nTI MSPM0 information: Chip is %s rev %d Device Unique ID: %d\n"+
			"main flash: %dKiB in %d bank(s), sram: %dKiB, data flash: %dKiB",
		info.name, info.version, info.traceID,
		info.mainFlashSizeKb, info.mainFlashNumBanks, info.sramSizeKb,
		info.dataFlashSizeKb), nil
}
