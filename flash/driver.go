// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package flash

import (
	"fmt"
)

// Driver is the hook table a NOR flash driver registers with the
// session owner. A driver may install the Default* helpers below for
// hooks it has no specific implementation of; the table itself does
// not substitute them for hooks left nil.
//
// Erase uses a half-open sector range [first, last); Protect uses a
// closed range [first, last] to match the protection hardware's
// block-granular registers.
type Driver struct {
	Name string

	// BankCommand validates a bank declaration and attaches the
	// driver's private state.
	BankCommand func(bank *Bank) error

	Erase func(bank *Bank, first, last uint32) error

	// Protect sets (set != 0) or clears (set == 0) write protection on
	// sectors [first, last].
	Protect func(bank *Bank, set int, first, last uint32) error

	Write func(bank *Bank, buffer []byte, offset uint32) error
	Read  func(bank *Bank, buffer []byte, offset uint32) error

	Probe     func(bank *Bank) error
	AutoProbe func(bank *Bank) error

	EraseCheck   func(bank *Bank) error
	ProtectCheck func(bank *Bank) error

	// Info renders a one-paragraph human summary of the probed chip.
	Info func(bank *Bank) (string, error)

	FreeDriverPriv func(bank *Bank)
}

// DefaultRead services the read hook with plain word reads on the
// target bus. Unaligned head and tail bytes go through a full word
// read and a byte extract.
func DefaultRead(bank *Bank, buffer []byte, offset uint32) error {
	if uint64(offset)+uint64(len(buffer)) > uint64(bank.Size) {
		return NewError(
			fmt.Sprintf("read past end of bank: offset 0x%x count %d", offset, len(buffer)),
			CodeFail)
	}

	pos := 0
	for pos < len(buffer) {
		addr := bank.Base + uint64(offset) + uint64(pos)
		aligned := addr &^ 0x3

		word, err := bank.Target.ReadU32(aligned)
		if err != nil {
			return err
		}

		for byteIdx := addr - aligned; byteIdx < 4 && pos < len(buffer); byteIdx++ {
			buffer[pos] = byte(word >> (8 * byteIdx))
			pos++
		}
	}

	return nil
}

// DefaultEraseCheck fills in the Erased tri-state of every sector by
// reading it back and comparing against erased flash (all ones).
func DefaultEraseCheck(bank *Bank) error {
	buf := make([]byte, 256)

	for i := range bank.Sectors {
		sector := &bank.Sectors[i]
		sector.Erased = TriYes

		for off := uint32(0); off < sector.Size; off += uint32(len(buf)) {
			chunk := buf
			if remain := sector.Size - off; remain < uint32(len(buf)) {
				chunk = buf[:remain]
			}

			if err := DefaultRead(bank, chunk, sector.Offset+off); err != nil {
				sector.Erased = TriUnknown
				return err
			}

			for _, b := range chunk {
				if b != 0xff {
					sector.Erased = TriNo
					break
				}
			}
			if sector.Erased == TriNo {
				break
			}
		}
	}

	return nil
}

// DefaultFreeDriverPriv drops the private state and lets the GC have
// it.
func DefaultFreeDriverPriv(bank *Bank) {
	bank.DriverPriv = nil
}
