// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// this code is mainly inspired and based on the openocd project source code
// for detailed information see

// https://sourceforge.net/p/openocd/code

package mspm0

import (
	"fmt"
	"strings"
	"time"

	"github.com/nmenon/goocd/flash"
	"github.com/nmenon/goocd/target"
)

// STATCMD failure bits and their names.
var fctlFailDecode = []struct {
	bit  uint8
	name string
}{
	{2, "CMDINPROGRESS"},
	{4, "FAILWEPROT"},
	{5, "FAILVERIFY"},
	{6, "FAILILLADDR"},
	{7, "FAILMODE"},
	{12, "FAILMISC"},
}

func fctlFailString(statCmd uint32) string {
	var names []string
	for _, d := range fctlFailDecode {
		if statCmd&(1<<d.bit) != 0 {
			names = append(names, d.name)
		}
	}
	return strings.Join(names, " ")
}

// waitCmdOK polls STATCMD until the command engine reports done,
// yielding a keep-alive every 500 ms of wall-clock wait. The deadline
// is 8 s per command; an engine that never raises CMDDONE within it is
// reported as a timeout, a done-but-not-pass status is decoded into
// the failure bit names.
func waitCmdOK(bank *flash.Bank, info *bankInfo) error {
	t := bank.Target

	timeout := info.timeout
	if timeout == 0 {
		timeout = cmdTimeout
	}

	start := time.Now()
	lastAlive := start

	var statCmd uint32
	for {
		val, err := t.ReadU32(fctlRegStatCmd)
		if err != nil {
			return err
		}
		statCmd = val

		if statCmd&fctlStatCmdDone == fctlStatCmdDone {
			break
		}

		now := time.Now()
		if now.Sub(lastAlive) >= keepAliveCadence {
			t.KeepAlive()
			lastAlive = now
		}
		if now.Sub(start) > timeout {
			return flash.NewError(
				fmt.Sprintf("%s: flash command timed out, STATCMD 0x%08x",
					info.name, statCmd),
				flash.CodeFlashFail)
		}
	}

	if statCmd&fctlStatCmdPass != fctlStatCmdPass {
		failStr := fctlFailString(statCmd)
		if failStr == "" {
			failStr = fmt.Sprintf("0x%08x", statCmd)
		}
		logger.Errorf("%s: Flash command failed: %s", info.name, failStr)
		return flash.NewError(
			fmt.Sprintf("%s: flash command failed: %s", info.name, failStr),
			flash.CodeFlashFail)
	}

	return nil
}

func checkHalted(bank *flash.Bank, info *bankInfo, op string) error {
	if bank.Target.State() != target.StateHalted {
		logger.Errorf("%s: Please halt target for %s flash", info.name, op)
		return flash.NewError(
			fmt.Sprintf("%s: target not halted for %s", info.name, op),
			flash.CodeNotHalted)
	}
	return nil
}

// erase erases sectors [first, last). Protection registers are
// captured before the first command and written back after every one,
// because the engine re-arms protection at the end of each erase.
func erase(bank *flash.Bank, first, last uint32) error {
	info, err := bankPriv(bank)
	if err != nil {
		return err
	}

	if err := checkHalted(bank, info, "erasing"); err != nil {
		return err
	}
	if info.did == 0 {
		return flash.NewError("flash bank not probed", flash.CodeNotProbed)
	}

	if last > bank.NumSectors() {
		return flash.NewError(
			fmt.Sprintf("%s: erase range [%d, %d) exceeds %d sectors",
				info.name, first, last, bank.NumSectors()),
			flash.CodeFail)
	}

	for i := first; i < last; i++ {
		if bank.Sectors[i].Protected == flash.TriYes {
			logger.Errorf("%s: Sector %d is protected", info.name, i)
			return flash.NewError(
				fmt.Sprintf("%s: sector %d is protected", info.name, i),
				flash.CodeProtected)
		}
	}

	protCache, err := readProtectRegs(bank, info)
	if err != nil {
		return err
	}

	t := bank.Target
	for i := first; i < last; i++ {
		addr := i * info.sectorSize

		if err := t.WriteU32(fctlRegCmdType, fctlCmdErase|fctlCmdSizeSector); err != nil {
			return err
		}
		if err := t.WriteU32(fctlRegCmdAddr, addr); err != nil {
			return err
		}
		if err := t.WriteU32(fctlRegCmdExec, fctlCmdExecute); err != nil {
			return err
		}

		if err := waitCmdOK(bank, info); err != nil {
			logger.Errorf("%s: Failed Erasing at address 0x%08x (sector: %d)",
				info.name, addr, i)
			return err
		}

		// The engine resets CMDWEPROTx to fully protected at the end
		// of every program and erase; put the user's configuration
		// back before the next command.
		if err := writeProtectRegs(bank, info, protCache); err != nil {
			return err
		}
	}

	return nil
}

// leU32 packs up to the first 4 bytes of buf little-endian,
// zero-padding a short tail.
func leU32(buf []byte) uint32 {
	var val uint32
	for i := 0; i < 4 && i < len(buf); i++ {
		val |= uint32(buf[i]) << (8 * i)
	}
	return val
}

// write programs buffer at offset, one flash word per command. Partial
// words are handled through CMDBYTEN, which masks the valid data bytes
// of the word.
func write(bank *flash.Bank, buffer []byte, offset uint32) error {
	// A zero-length program is complete before it starts.
	if len(buffer) == 0 {
		return nil
	}

	info, err := bankPriv(bank)
	if err != nil {
		return err
	}

	if err := checkHalted(bank, info, "programming"); err != nil {
		return err
	}
	if info.did == 0 {
		return flash.NewError("flash bank not probed", flash.CodeNotProbed)
	}

	wordSize := uint32(info.flashWordSizeBytes)
	if offset%wordSize != 0 {
		logger.Errorf("%s: Offset 0x%08x Must be aligned to %d bytes",
			info.name, offset, wordSize)
		return flash.NewError(
			fmt.Sprintf("%s: offset 0x%08x not aligned to %d bytes",
				info.name, offset, wordSize),
			flash.CodeMisaligned)
	}

	count := uint32(len(buffer))
	if uint64(offset)+uint64(count) > uint64(bank.Size) {
		return flash.NewError(
			fmt.Sprintf("%s: write of %d bytes at 0x%08x exceeds bank size 0x%08x",
				info.name, count, offset, bank.Size),
			flash.CodeFail)
	}

	firstSec := offset / info.sectorSize
	lastSec := (offset + count + info.sectorSize - 1) / info.sectorSize
	for i := firstSec; i < lastSec; i++ {
		if bank.Sectors[i].Protected == flash.TriYes {
			logger.Errorf("%s: Sector %d is protected", info.name, i)
			return flash.NewError(
				fmt.Sprintf("%s: sector %d is protected", info.name, i),
				flash.CodeProtected)
		}
	}

	// One snapshot serves the whole transfer; the restore after each
	// command writes the same values back.
	protCache, err := readProtectRegs(bank, info)
	if err != nil {
		return err
	}

	t := bank.Target
	pos := uint32(0)

	for count > 0 {
		numBytes := count
		if numBytes > wordSize {
			numBytes = wordSize
		}

		// One enable bit per valid data byte, then the ECC chunk
		// enables above them.
		bytesEn := uint32(1)<<numBytes - 1
		switch wordSize {
		case 8:
			bytesEn |= 1 << 8
		case 16:
			bytesEn |= 1 << 16
			if numBytes > 8 {
				bytesEn |= 1 << 17
			}
		default:
			return flash.NewError(
				fmt.Sprintf("%s: invalid flash word size %d", info.name, wordSize),
				flash.CodeFail)
		}

		if err := t.WriteU32(fctlRegCmdType, fctlCmdProgram|fctlCmdSizeOneWord); err != nil {
			return err
		}
		if err := t.WriteU32(fctlRegCmdByteEn, bytesEn); err != nil {
			return err
		}
		if err := t.WriteU32(fctlRegCmdAddr, offset); err != nil {
			return err
		}

		// Stream the word into CMDDATA0 onwards, four bytes per
		// register, the last register possibly partial.
		dataReg := uint64(fctlRegCmdData0)
		remain := numBytes
		for remain > 0 {
			if err := t.WriteU32(dataReg, leU32(buffer[pos:])); err != nil {
				return err
			}

			sub := remain
			if sub > 4 {
				sub = 4
			}
			pos += sub
			offset += sub
			count -= sub
			remain -= sub
			dataReg += uint64(sub)
		}

		if err := t.WriteU32(fctlRegCmdExec, fctlCmdExecute); err != nil {
			return err
		}

		if err := waitCmdOK(bank, info); err != nil {
			return err
		}

		if err := writeProtectRegs(bank, info, protCache); err != nil {
			return err
		}
	}

	return nil
}
