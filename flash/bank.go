// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Package flash holds the generic flash-bank model shared by the NOR
// drivers: bank and sector descriptors, tri-state sector flags and the
// driver hook table the session owner dispatches through.
package flash

import (
	"github.com/nmenon/goocd/target"
)

// TriState is the knowledge we have about a per-sector flag. Sector
// scans are expensive, so "we have not looked yet" is a first-class
// value rather than a magic integer.
type TriState int8

const (
	TriUnknown TriState = iota
	TriNo
	TriYes
)

func (t TriState) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "unknown"
	}
}

// Tri maps a condition to TriYes/TriNo.
func Tri(b bool) TriState {
	if b {
		return TriYes
	}
	return TriNo
}

// Sector describes one erase unit of a bank.
type Sector struct {
	Offset    uint32
	Size      uint32
	Erased    TriState
	Protected TriState
}

// Bank is one contiguous flash region with its own sector numbering.
// Base and Target are set at declaration time; Size and Sectors are
// hydrated by the driver's probe hook.
type Bank struct {
	Name string
	Base uint64
	Size uint32

	Sectors []Sector

	Target target.Target

	// DriverPriv is the driver's per-bank state, owned by the bank and
	// released through the driver's FreeDriverPriv hook.
	DriverPriv any
}

// NumSectors is len(Sectors) as a uint32 for address arithmetic.
func (b *Bank) NumSectors() uint32 {
	return uint32(len(b.Sectors))
}
