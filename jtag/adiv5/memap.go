// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package adiv5

// MemAPBus adapts a MEM-AP to the target bus contract: each word
// access programs TAR and moves the data through DRW. CSW is
// configured once for word-sized, non-incrementing access.
type MemAPBus struct {
	ap *AccessPort

	cswValid bool
}

// CSW value for 32-bit accesses without auto-increment.
const cswWordNoInc = 0x2

// NewMemAPBus returns a word-wide bus view over ap.
func NewMemAPBus(ap *AccessPort) *MemAPBus {
	return &MemAPBus{ap: ap}
}

func (b *MemAPBus) setupCSW() error {
	if b.cswValid {
		return nil
	}
	if err := b.ap.DAP.Ops.QueueAPWrite(b.ap, MemAPRegCSW, cswWordNoInc); err != nil {
		return err
	}
	b.cswValid = true
	return nil
}

func (b *MemAPBus) ReadU32(addr uint64) (uint32, error) {
	ops := b.ap.DAP.Ops

	if err := b.setupCSW(); err != nil {
		return 0, err
	}
	if err := ops.QueueAPWrite(b.ap, MemAPRegTAR, uint32(addr)); err != nil {
		return 0, err
	}

	var data uint32
	if err := ops.QueueAPRead(b.ap, MemAPRegDRW, &data); err != nil {
		return 0, err
	}
	if err := ops.Run(b.ap.DAP); err != nil {
		return 0, err
	}

	return data, nil
}

func (b *MemAPBus) WriteU32(addr uint64, value uint32) error {
	ops := b.ap.DAP.Ops

	if err := b.setupCSW(); err != nil {
		return err
	}
	if err := ops.QueueAPWrite(b.ap, MemAPRegTAR, uint32(addr)); err != nil {
		return err
	}
	if err := ops.QueueAPWrite(b.ap, MemAPRegDRW, value); err != nil {
		return err
	}

	return ops.Run(b.ap.DAP)
}
