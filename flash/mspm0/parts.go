// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package mspm0

import "sort"

type partInfo struct {
	part    uint16
	variant uint8
	name    string
}

type familyInfo struct {
	name    string
	partNum uint16
	parts   []partInfo
}

// Part tables, ordered by (part, variant) so lookup can bisect.
// Orderable codes per https://www.ti.com/lit/ds/symlink/mspm0l1346.pdf
// Table 8-13 and the sibling datasheets.
var mspm0lParts = []partInfo{
	{0x0EF0, 0x17, "MSPM0L1303SRGER"},
	{0x0EF0, 0xE2, "MSPM0L1303TRGER"},
	{0x40B0, 0xD0, "MSPM0L1344TDGS20R"},
	{0x4D03, 0x2D, "MSPM0L1305SRHBR"},
	{0x4D03, 0x64, "MSPM0L1305SDGS28R"},
	{0x4D03, 0x73, "MSPM0L1305SRGER"},
	{0x4D03, 0x74, "MSPM0L1305QDGS28R"},
	{0x4D03, 0x78, "MSPM0L1305QRHBR"},
	{0x4D03, 0x85, "MSPM0L1305TRHBR"},
	{0x4D03, 0x91, "MSPM0L1305SDYYR"},
	{0x4D03, 0xA0, "MSPM0L1305TDGS20R"},
	{0x4D03, 0xB7, "MSPM0L1305QDGS20R"},
	{0x4D03, 0xC7, "MSPM0L1305SDGS20R"},
	{0x4D03, 0xDE, "MSPM0L1305TDYYR"},
	{0x4D03, 0xEA, "MSPM0L1305TRGER"},
	{0x4D03, 0xEC, "MSPM0L1305QDYYR"},
	{0x4D03, 0xFB, "MSPM0L1305TDGS28R"},
	{0x51DB, 0x16, "MSPM0L1105TDGS20R"},
	{0x51DB, 0x54, "MSPM0L1105TDYYR"},
	{0x51DB, 0x68, "MSPM0L1105TRHBR"},
	{0x51DB, 0x83, "MSPM0L1105TDGS28R"},
	{0x51DB, 0x86, "MSPM0L1105TRGER"},
	{0x5552, 0x4B, "MSPM0L1106TDGS20R"},
	{0x5552, 0x53, "MSPM0L1106TRHBR"},
	{0x5552, 0x90, "MSPM0L1106TRGER"},
	{0x5552, 0x98, "MSPM0L1106TDGS28R"},
	{0x5552, 0x9D, "MSPM0L1106TDYYR"},
	{0x98B4, 0x74, "MSPM0L1345TDGS28R"},
	{0xB231, 0x2E, "MSPM0L1343TDGS20R"},
	{0xBB70, 0x05, "MSPM0L1306SDGS28R"},
	{0xBB70, 0x0A, "MSPM0L1306TDGS20R"},
	{0xBB70, 0x0E, "MSPM0L1306SDYYR"},
	{0xBB70, 0x35, "MSPM0L1306TDYYR"},
	{0xBB70, 0x3C, "MSPM0L1306SRHBR"},
	{0xBB70, 0x52, "MSPM0L1306TRHBR"},
	{0xBB70, 0x59, "MSPM0L1306QDGS20R"},
	{0xBB70, 0x63, "MSPM0L1306TDGS28R"},
	{0xBB70, 0x7F, "MSPM0L1306SRGER"},
	{0xBB70, 0x9F, "MSPM0L1306QDYYR"},
	{0xBB70, 0xAA, "MSPM0L1306TRGER"},
	{0xBB70, 0xC2, "MSPM0L1306QRHBR"},
	{0xBB70, 0xF4, "MSPM0L1306SDGS20R"},
	{0xBB70, 0xF7, "MSPM0L1306QDGS28R"},
	{0xD717, 0x26, "MSPM0L1304SRGER"},
	{0xD717, 0x33, "MSPM0L1304TDGS20R"},
	{0xD717, 0x5A, "MSPM0L1304TRHBR"},
	{0xD717, 0x73, "MSPM0L1304SDGS28R"},
	{0xD717, 0x91, "MSPM0L1304QDGS20R"},
	{0xD717, 0xA0, "MSPM0L1304QDYYR"},
	{0xD717, 0xA8, "MSPM0L1304TDGS28R"},
	{0xD717, 0xA9, "MSPM0L1304QRHBR"},
	{0xD717, 0xB6, "MSPM0L1304QDGS28R"},
	{0xD717, 0xB7, "MSPM0L1304SDYYR"},
	{0xD717, 0xB7, "MSPM0L1304TRGER"},
	{0xD717, 0xE4, "MSPM0L1304SRHBR"},
	{0xD717, 0xF9, "MSPM0L1304TDYYR"},
	{0xD717, 0xFA, "MSPM0L1304SDGS20R"},
	{0xF2B5, 0xEF, "MSPM0L1346TDGS28R"},
}

// https://www.ti.com/lit/ds/symlink/mspm0g3506.pdf Table 8-20
var mspm0gParts = []partInfo{
	{0x13C4, 0x30, "MSPM0G1505SRHBR"},
	{0x13C4, 0x34, "MSPM0G1505SRGZR"},
	{0x13C4, 0x3E, "MSPM0G1505SPTR"},
	{0x13C4, 0x47, "MSPM0G1505SRGER"},
	{0x13C4, 0x53, "MSPM0G1505SPMR"},
	{0x13C4, 0x73, "MSPM0G1505SDGS28R"},
	{0x151F, 0x08, "MSPM0G3506SDGS28R"},
	{0x151F, 0x39, "MSPM0G3506SPTR"},
	{0x151F, 0xB5, "MSPM0G3506SRHBR"},
	{0x151F, 0xD4, "MSPM0G3506SPMR"},
	{0x151F, 0xFE, "MSPM0G3506SRGZR"},
	{0x2655, 0x4D, "MSPM0G1507SRHBR"},
	{0x2655, 0x6D, "MSPM0G1507SDGS28R"},
	{0x2655, 0x83, "MSPM0G1507SRGER"},
	{0x2655, 0x97, "MSPM0G1507SPMR"},
	{0x2655, 0xD3, "MSPM0G1507SRGZR"},
	{0x4749, 0x21, "MSPM0G3105SDGS20R"},
	{0x4749, 0xBE, "MSPM0G3105SRHBR"},
	{0x4749, 0xDD, "MSPM0G3105SDGS28R"},
	{0x477B, 0x00, "MSPM0G1106TRHBR"},
	{0x477B, 0x71, "MSPM0G1106TPTR"},
	{0x477B, 0xBB, "MSPM0G1106TRGZR"},
	{0x477B, 0xD4, "MSPM0G1106TPMR"},
	{0x54C7, 0x67, "MSPM0G3106SRHBR"},
	{0x54C7, 0xB9, "MSPM0G3106SDGS28R"},
	{0x54C7, 0xD2, "MSPM0G3106SDGS20R"},
	{0x5AE0, 0x3A, "MSPM0G1506SDGS28R"},
	{0x5AE0, 0x57, "MSPM0G1506SRHBR"},
	{0x5AE0, 0x67, "MSPM0G1506SRGER"},
	{0x5AE0, 0x75, "MSPM0G1506SRGZR"},
	{0x5AE0, 0xF6, "MSPM0G1506SPMR"},
	{0x807B, 0x20, "MSPM0G1107TRGZR"},
	{0x807B, 0x32, "MSPM0G1107TPTR"},
	{0x807B, 0x79, "MSPM0G1107TRGER"},
	{0x807B, 0x82, "MSPM0G1107TDGS28R"},
	{0x807B, 0xB3, "MSPM0G1107TPMR"},
	{0x807B, 0xBC, "MSPM0G1107TRHBR"},
	{0x8934, 0x0D, "MSPM0G1105TPTR"},
	{0x8934, 0xFE, "MSPM0G1105TRGZR"},
	{0xAB39, 0x5C, "MSPM0G3107SDGS20R"},
	{0xAB39, 0xB7, "MSPM0G3107SRHBR"},
	{0xAB39, 0xCC, "MSPM0G3107SDGS28R"},
	{0xAE2D, 0x3F, "MSPM0G3507SPTR"},
	{0xAE2D, 0x4C, "MSPM0G3507SRHBR"},
	{0xAE2D, 0xC7, "MSPM0G3507SPMR"},
	{0xAE2D, 0xCA, "MSPM0G3507SDGS28R"},
	{0xAE2D, 0xF7, "MSPM0G3507SRGZR"},
	{0xC504, 0x1D, "MSPM0G3505SPMR"},
	{0xC504, 0x8E, "MSPM0G3505SDGS28R"},
	{0xC504, 0x93, "MSPM0G3505SPTR"},
	{0xC504, 0xC7, "MSPM0G3505SRGZR"},
	{0xC504, 0xDF, "MSPM0G3505TDGS28R"},
	{0xC504, 0xE7, "MSPM0G3505SRHBR"},
}

var families = []familyInfo{
	{"MSPM0L", 0xbb82, mspm0lParts},
	{"MSPM0G", 0xbb88, mspm0gParts},
}

func lookupFamily(partNum uint16) *familyInfo {
	for i := range families {
		if families[i].partNum == partNum {
			return &families[i]
		}
	}
	return nil
}

// lookupPart bisects the family's part table on (part, variant).
func (f *familyInfo) lookupPart(part uint16, variant uint8) *partInfo {
	idx := sort.Search(len(f.parts), func(i int) bool {
		p := &f.parts[i]
		if p.part != part {
			return p.part >= part
		}
		return p.variant >= variant
	})

	if idx < len(f.parts) && f.parts[idx].part == part && f.parts[idx].variant == variant {
		return &f.parts[idx]
	}
	return nil
}
