// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package flash

import (
	"errors"
	"testing"

	"github.com/nmenon/goocd/target"
)

// memTarget is a byte-array-backed target bus.
type memTarget struct {
	base uint64
	mem  []byte
}

func (m *memTarget) ReadU32(addr uint64) (uint32, error) {
	off := addr - m.base
	if off+4 > uint64(len(m.mem)) {
		return 0, errors.New("read outside backing memory")
	}
	return uint32(m.mem[off]) | uint32(m.mem[off+1])<<8 |
		uint32(m.mem[off+2])<<16 | uint32(m.mem[off+3])<<24, nil
}

func (m *memTarget) WriteU32(addr uint64, val uint32) error {
	off := addr - m.base
	if off+4 > uint64(len(m.mem)) {
		return errors.New("write outside backing memory")
	}
	m.mem[off] = byte(val)
	m.mem[off+1] = byte(val >> 8)
	m.mem[off+2] = byte(val >> 16)
	m.mem[off+3] = byte(val >> 24)
	return nil
}

func (m *memTarget) State() target.State { return target.StateHalted }
func (m *memTarget) KeepAlive()          {}

func testBank(size uint32) (*Bank, *memTarget) {
	mt := &memTarget{mem: make([]byte, size)}
	bank := &Bank{
		Base:    0,
		Size:    size,
		Target:  mt,
		Sectors: []Sector{{Offset: 0, Size: size, Erased: TriUnknown, Protected: TriUnknown}},
	}
	return bank, mt
}

func TestDefaultRead(t *testing.T) {
	bank, mt := testBank(64)
	for i := range mt.mem {
		mt.mem[i] = byte(i)
	}

	buf := make([]byte, 8)
	if err := DefaultRead(bank, buf, 4); err != nil {
		t.Fatalf("DefaultRead: %v", err)
	}
	for i, b := range buf {
		if b != byte(4+i) {
			t.Errorf("buf[%d] = %d, want %d", i, b, 4+i)
		}
	}

	// Unaligned offset and odd length.
	buf = make([]byte, 5)
	if err := DefaultRead(bank, buf, 3); err != nil {
		t.Fatalf("DefaultRead unaligned: %v", err)
	}
	for i, b := range buf {
		if b != byte(3+i) {
			t.Errorf("unaligned buf[%d] = %d, want %d", i, b, 3+i)
		}
	}
}

func TestDefaultReadBounds(t *testing.T) {
	bank, _ := testBank(16)

	if err := DefaultRead(bank, make([]byte, 8), 12); err == nil {
		t.Error("read past end of bank did not fail")
	}
}

func TestDefaultEraseCheck(t *testing.T) {
	bank, mt := testBank(1024)
	for i := range mt.mem {
		mt.mem[i] = 0xff
	}

	if err := DefaultEraseCheck(bank); err != nil {
		t.Fatalf("DefaultEraseCheck: %v", err)
	}
	if bank.Sectors[0].Erased != TriYes {
		t.Errorf("blank sector erased = %v, want yes", bank.Sectors[0].Erased)
	}

	mt.mem[700] = 0x42
	if err := DefaultEraseCheck(bank); err != nil {
		t.Fatalf("DefaultEraseCheck: %v", err)
	}
	if bank.Sectors[0].Erased != TriNo {
		t.Errorf("dirty sector erased = %v, want no", bank.Sectors[0].Erased)
	}
}

func TestTriState(t *testing.T) {
	if Tri(true) != TriYes || Tri(false) != TriNo {
		t.Error("Tri mapping broken")
	}

	tests := []struct {
		tri  TriState
		want string
	}{
		{TriYes, "yes"},
		{TriNo, "no"},
		{TriUnknown, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.tri.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.tri, got, tc.want)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	err := NewError("sector 3 is protected", CodeProtected)
	if err.Error() != "sector 3 is protected" {
		t.Errorf("Error() = %q", err.Error())
	}
	if CodeOf(err) != CodeProtected {
		t.Errorf("CodeOf = %d, want %d", CodeOf(err), CodeProtected)
	}

	if CodeOf(nil) != CodeOK {
		t.Errorf("CodeOf(nil) = %d, want %d", CodeOf(nil), CodeOK)
	}
	if CodeOf(errors.New("plain")) != CodeFail {
		t.Errorf("CodeOf(plain) = %d, want %d", CodeOf(errors.New("plain")), CodeFail)
	}
}

func TestDefaultFreeDriverPriv(t *testing.T) {
	bank, _ := testBank(16)
	bank.DriverPriv = struct{}{}

	DefaultFreeDriverPriv(bank)
	if bank.DriverPriv != nil {
		t.Error("driver priv not released")
	}
}
