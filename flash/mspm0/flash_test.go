// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package mspm0

import (
	"strings"
	"testing"
	"time"

	"github.com/nmenon/goocd/flash"
	"github.com/nmenon/goocd/target"
)

// readyStatCmd makes the command engine report done+pass immediately.
func readyStatCmd(ft *fakeTarget) {
	ft.regs[fctlRegStatCmd] = fctlStatCmdDone | fctlStatCmdPass
}

func TestEraseSingleSector(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	// Distinctive protection snapshot to watch for the restore.
	ft.regs[fctlRegCmdWEProtA] = 0xdead0001
	ft.regs[fctlRegCmdWEProtA+4] = 0xdead0002
	ft.regs[fctlRegCmdWEProtA+8] = 0xdead0003

	if err := erase(bank, 0, 1); err != nil {
		t.Fatalf("erase: %v", err)
	}

	if got := ft.writesTo(fctlRegCmdType); len(got) != 1 || got[0] != 0x42 {
		t.Errorf("CMDTYPE writes = %#v, want [0x42]", got)
	}
	if got := ft.writesTo(fctlRegCmdAddr); len(got) != 1 || got[0] != 0 {
		t.Errorf("CMDADDR writes = %#v, want [0]", got)
	}
	if got := ft.writesTo(fctlRegCmdExec); len(got) != 1 || got[0] != fctlCmdExecute {
		t.Errorf("CMDEXEC writes = %#v, want [1]", got)
	}

	// The protection snapshot is written back after the command.
	for i, want := range []uint32{0xdead0001, 0xdead0002, 0xdead0003} {
		addr := uint64(fctlRegCmdWEProtA) + uint64(i)*4
		got := ft.writesTo(addr)
		if len(got) != 1 || got[0] != want {
			t.Errorf("CMDWEPROTA[%d] writes = %#v, want [0x%08x]", i, got, want)
		}
		if ft.regs[addr] != want {
			t.Errorf("CMDWEPROTA[%d] = 0x%08x, want 0x%08x", i, ft.regs[addr], want)
		}
	}

	// Restore must come after the execute.
	var execIdx, protIdx int = -1, -1
	for i, w := range ft.writes {
		switch w.addr {
		case fctlRegCmdExec:
			execIdx = i
		case fctlRegCmdWEProtA:
			protIdx = i
		}
	}
	if protIdx < execIdx {
		t.Error("protection restore issued before CMDEXEC")
	}
}

func TestEraseRange(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	if err := erase(bank, 2, 5); err != nil {
		t.Fatalf("erase: %v", err)
	}

	want := []uint32{2 * 1024, 3 * 1024, 4 * 1024}
	got := ft.writesTo(fctlRegCmdAddr)
	if len(got) != len(want) {
		t.Fatalf("CMDADDR writes = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CMDADDR[%d] = 0x%x, want 0x%x", i, got[i], want[i])
		}
	}
}

func TestEraseRefusesProtectedSector(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	bank.Sectors[3].Protected = flash.TriYes

	wantCode(t, erase(bank, 0, 4), flash.CodeProtected)

	if got := ft.writesTo(fctlRegCmdExec); len(got) != 0 {
		t.Errorf("CMDEXEC issued despite protected sector: %#v", got)
	}

	// The half-open end excludes the protected sector.
	if err := erase(bank, 0, 3); err != nil {
		t.Errorf("erase below protected sector: %v", err)
	}
}

func TestEraseRequiresHaltedTarget(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	ft.state = target.StateRunning

	wantCode(t, erase(bank, 0, 1), flash.CodeNotHalted)
}

func TestEraseRequiresProbe(t *testing.T) {
	bank, _ := newBank(t, flashBaseMain, mspm0g3507)
	wantCode(t, erase(bank, 0, 1), flash.CodeNotProbed)
}

func TestEraseRangeBeyondBank(t *testing.T) {
	bank, _ := probedBank(t, flashBaseMain, mspm0g3507)
	wantCode(t, erase(bank, 0, bank.NumSectors()+1), flash.CodeFail)
}

func TestEraseCommandFailure(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)

	// Done without pass, write-protect violation flagged.
	ft.regs[fctlRegStatCmd] = fctlStatCmdDone | 1<<4

	err := erase(bank, 0, 1)
	wantCode(t, err, flash.CodeFlashFail)
	if got := err.Error(); !strings.Contains(got, "FAILWEPROT") {
		t.Errorf("error %q does not decode FAILWEPROT", got)
	}
}

func TestEraseTimeout(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	shortTimeout(t, bank, 20*time.Millisecond)

	// CMDDONE never asserts.
	ft.regs[fctlRegStatCmd] = 0

	start := time.Now()
	err := erase(bank, 0, 1)
	wantCode(t, err, flash.CodeFlashFail)
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error %q is not a timeout", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("timeout fired before the deadline")
	}
}

func TestWaitCmdKeepAlive(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the keep-alive cadence")
	}

	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)

	start := time.Now()
	ft.readHook = func(addr uint64, val uint32) uint32 {
		if addr == fctlRegStatCmd && time.Since(start) > 700*time.Millisecond {
			return fctlStatCmdDone | fctlStatCmdPass
		}
		return val
	}

	if err := erase(bank, 0, 1); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if ft.keepAlives == 0 {
		t.Error("no keep-alive issued during a long poll")
	}
}

func TestFctlFailString(t *testing.T) {
	tests := []struct {
		statCmd uint32
		want    string
	}{
		{1 << 2, "CMDINPROGRESS"},
		{1 << 4, "FAILWEPROT"},
		{1 << 5, "FAILVERIFY"},
		{1 << 6, "FAILILLADDR"},
		{1 << 7, "FAILMODE"},
		{1 << 12, "FAILMISC"},
		{1<<4 | 1<<5, "FAILWEPROT FAILVERIFY"},
		{0, ""},
	}

	for _, tc := range tests {
		if got := fctlFailString(tc.statCmd); got != tc.want {
			t.Errorf("fctlFailString(0x%x) = %q, want %q", tc.statCmd, got, tc.want)
		}
	}
}

func TestWriteFiveBytes(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	ft.regs[fctlRegCmdWEProtA] = 0xcafe0000

	if err := write(bank, []byte{0x11, 0x22, 0x33, 0x44, 0x55}, 0); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := ft.writesTo(fctlRegCmdByteEn); len(got) != 1 || got[0] != 0x11f {
		t.Errorf("CMDBYTEN writes = %#v, want [0x11f]", got)
	}
	if got := ft.writesTo(fctlRegCmdType); len(got) != 1 || got[0] != fctlCmdProgram {
		t.Errorf("CMDTYPE writes = %#v, want [0x1]", got)
	}
	if got := ft.writesTo(fctlRegCmdData0); len(got) != 1 || got[0] != 0x44332211 {
		t.Errorf("CMDDATA0 writes = %#v, want [0x44332211]", got)
	}
	if got := ft.writesTo(fctlRegCmdData0 + 4); len(got) != 1 || got[0] != 0x55 {
		t.Errorf("CMDDATA0+4 writes = %#v, want [0x55]", got)
	}
	if got := ft.writesTo(fctlRegCmdExec); len(got) != 1 {
		t.Errorf("CMDEXEC writes = %#v, want one execute", got)
	}

	// Protection restored after the command.
	if got := ft.writesTo(fctlRegCmdWEProtA); len(got) != 1 || got[0] != 0xcafe0000 {
		t.Errorf("CMDWEPROTA writes = %#v, want [0xcafe0000]", got)
	}

	// An unaligned follow-up is refused.
	wantCode(t, write(bank, []byte{0x66}, 5), flash.CodeMisaligned)
}

// One command cycle per flash word, tail masked through CMDBYTEN.
func TestWriteByteEnables(t *testing.T) {
	for n := 1; n <= 8; n++ {
		bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
		readyStatCmd(ft)

		data := make([]byte, n)
		if err := write(bank, data, 0); err != nil {
			t.Fatalf("write %d bytes: %v", n, err)
		}

		want := uint32(1)<<n - 1 | 1<<8
		if got := ft.writesTo(fctlRegCmdByteEn); len(got) != 1 || got[0] != want {
			t.Errorf("n=%d: CMDBYTEN writes = %#v, want [0x%x]", n, got, want)
		}
	}
}

func TestWriteMultiWord(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}

	if err := write(bank, data, 8); err != nil {
		t.Fatalf("write: %v", err)
	}

	// 8 + 8 + 4 bytes: three command cycles.
	if got := ft.writesTo(fctlRegCmdExec); len(got) != 3 {
		t.Fatalf("CMDEXEC writes = %#v, want 3 executes", got)
	}
	if got := ft.writesTo(fctlRegCmdAddr); len(got) != 3 ||
		got[0] != 8 || got[1] != 16 || got[2] != 24 {
		t.Errorf("CMDADDR writes = %#v, want [8 16 24]", got)
	}

	byteEns := ft.writesTo(fctlRegCmdByteEn)
	if len(byteEns) != 3 || byteEns[0] != 0x1ff || byteEns[1] != 0x1ff || byteEns[2] != 0x10f {
		t.Errorf("CMDBYTEN writes = %#v, want [0x1ff 0x1ff 0x10f]", byteEns)
	}

	// Full words stream four bytes per data register.
	data0 := ft.writesTo(fctlRegCmdData0)
	data1 := ft.writesTo(fctlRegCmdData0 + 4)
	if len(data0) != 3 || len(data1) != 2 {
		t.Fatalf("CMDDATA0 writes = %#v, CMDDATA0+4 writes = %#v", data0, data1)
	}
	if data0[0] != 0x03020100 || data1[0] != 0x07060504 {
		t.Errorf("first word = 0x%08x 0x%08x", data0[0], data1[0])
	}
	if data0[2] != 0x13121110 {
		t.Errorf("tail word = 0x%08x, want 0x13121110", data0[2])
	}
}

func TestWriteZeroLengthIsNoop(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)

	// Even at an unaligned offset and on an unprobed bank, an empty
	// program succeeds without touching the bus.
	if err := write(bank, nil, 3); err != nil {
		t.Fatalf("write(nil): %v", err)
	}

	unprobed, uft := newBank(t, flashBaseMain, mspm0g3507)
	if err := write(unprobed, []byte{}, 5); err != nil {
		t.Fatalf("write(empty) on unprobed bank: %v", err)
	}

	if len(ft.writes) != 0 || len(uft.writes) != 0 {
		t.Error("zero-length write issued bus traffic")
	}
}

func TestWriteMisaligned(t *testing.T) {
	bank, _ := probedBank(t, flashBaseMain, mspm0g3507)

	for _, offset := range []uint32{1, 4, 7, 12} {
		wantCode(t, write(bank, []byte{0xff}, offset), flash.CodeMisaligned)
	}
}

func TestWriteRefusesProtectedSector(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	readyStatCmd(ft)

	bank.Sectors[1].Protected = flash.TriYes

	// Spans sectors 0 and 1.
	data := make([]byte, 2048)
	wantCode(t, write(bank, data, 0), flash.CodeProtected)
	if got := ft.writesTo(fctlRegCmdExec); len(got) != 0 {
		t.Errorf("CMDEXEC issued despite protected sector: %#v", got)
	}

	// A write confined to sector 0 passes the check.
	if err := write(bank, data[:1024], 0); err != nil {
		t.Errorf("write inside unprotected sector: %v", err)
	}
}

func TestWriteBeyondBank(t *testing.T) {
	bank, _ := probedBank(t, flashBaseMain, mspm0g3507)

	data := make([]byte, 16)
	wantCode(t, write(bank, data, bank.Size-8), flash.CodeFail)
}

func TestWriteRequiresHaltedTarget(t *testing.T) {
	bank, ft := probedBank(t, flashBaseMain, mspm0g3507)
	ft.state = target.StateRunning

	wantCode(t, write(bank, []byte{1}, 0), flash.CodeNotHalted)
}

func TestLeU32(t *testing.T) {
	tests := []struct {
		buf  []byte
		want uint32
	}{
		{[]byte{0x11, 0x22, 0x33, 0x44}, 0x44332211},
		{[]byte{0x11, 0x22, 0x33, 0x44, 0x55}, 0x44332211},
		{[]byte{0x55}, 0x55},
		{[]byte{0xaa, 0xbb}, 0xbbaa},
		{nil, 0},
	}

	for _, tc := range tests {
		if got := leU32(tc.buf); got != tc.want {
			t.Errorf("leU32(%v) = 0x%08x, want 0x%08x", tc.buf, got, tc.want)
		}
	}
}
