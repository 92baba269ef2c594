// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Package jtag defines the adapter driver table a debug transport
// backend registers with the session owner.
package jtag

import (
	"github.com/spf13/cobra"

	"github.com/nmenon/goocd/jtag/adiv5"
)

// Adapter is the hook table of one debug adapter backend.
type Adapter struct {
	Name string

	// Transports this adapter can service, e.g. "dapdirect_swd".
	Transports []string

	// Commands is the adapter's configuration command subtree, mounted
	// under the session's command root.
	Commands *cobra.Command

	Init func() error
	Quit func() error

	Reset func(trst, srst bool) error

	Speed    func(speed int) error
	Khz      func(khz int) (int, error)
	SpeedDiv func(speed int) (int, error)

	// DAPSWDOps is non-nil for DAP-direct SWD capable adapters.
	DAPSWDOps adiv5.Ops
}
