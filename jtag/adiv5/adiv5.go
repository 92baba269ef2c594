// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Package adiv5 carries the Arm Debug Interface v5 definitions the
// transport backends program against: the DAP and Access Port model,
// the MEM-AP and DP register offsets, and the queued operation set a
// backend implements.
package adiv5

// MEM-AP register offsets.
const (
	MemAPRegCSW = 0x00
	MemAPRegTAR = 0x04
	MemAPRegDRW = 0x0c
	MemAPRegBD0 = 0x10
	MemAPRegBD1 = 0x14
	MemAPRegBD2 = 0x18
	MemAPRegBD3 = 0x1c

	MemAPRegCFG  = 0xf4
	MemAPRegBASE = 0xf8
	APRegIDR     = 0xfc
)

// DP register offsets.
const (
	DPCtrlStat = 0x4
)

// DP CTRL/STAT bits.
const (
	CDbgPwrUpAck = 1 << 29
	CSysPwrUpAck = 1 << 31
)

// CSW bits used by the transports.
const (
	// Size field in CSW[2:0].
	CSWSizeMask = 0x7

	// AddrInc field in CSW[5:4]; any non-zero value enables TAR
	// auto-increment on DRW access.
	CSWAddrIncMask = 0x30
)

// The select field of a DP transaction is 8 bits wide.
const APSelMax = 255

// DAP is one debug access port aggregate: the DP plus its APs.
type DAP struct {
	// AdiVersion is 5 for ADIv5 and 6 for ADIv6 debug infrastructure.
	// The zero value is treated as ADIv5.
	AdiVersion int

	// Ops is the transport backend the DAP is routed through.
	Ops Ops
}

// IsADIv6 reports whether the DAP uses the ADIv6 addressing scheme.
func (d *DAP) IsADIv6() bool {
	return d.AdiVersion == 6
}

// AP returns the AccessPort handle for index num on this DAP.
func (d *DAP) AP(num uint64) *AccessPort {
	return &AccessPort{DAP: d, Num: num}
}

// AccessPort is one AP of a DAP, identified by its index.
type AccessPort struct {
	DAP *DAP
	Num uint64
}

// Ops is the queued operation set of a DAP transport. Queue calls may
// latch an error instead of failing; Run flushes the queue and reports
// the first error seen since the previous Run.
type Ops interface {
	Connect(dap *DAP) error

	QueueDPRead(dap *DAP, reg uint32, data *uint32) error
	QueueDPWrite(dap *DAP, reg uint32, data uint32) error

	QueueAPRead(ap *AccessPort, reg uint32, data *uint32) error
	QueueAPWrite(ap *AccessPort, reg uint32, data uint32) error
	QueueAPAbort(dap *DAP, ack *uint8) error

	Run(dap *DAP) error
}
