// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package dmem

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseU64(arg string) (uint64, error) {
	val, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", arg, err)
	}
	return val, nil
}

// Commands builds the dmem configuration command subtree.
func (a *Adapter) Commands() *cobra.Command {
	dmemCmd := &cobra.Command{
		Use:   "dmem",
		Short: "Perform dmem (Direct Memory) DAP management and configuration",
	}

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "print the config info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dmem (Direct Memory) AP Adapter Configuration:\n")
			fmt.Fprintf(out, " Device       : %s\n", a.DevicePath)
			fmt.Fprintf(out, " Base Address : 0x%x\n", a.BaseAddress)
			fmt.Fprintf(out, " Max APs      : %d\n", a.MaxAPs)
			fmt.Fprintf(out, " AP offset    : 0x%08x\n", a.APOffset)
			fmt.Fprintf(out, " Emulated AP Count : %d\n", len(a.emuAPList))

			if len(a.emuAPList) > 0 {
				fmt.Fprintf(out, " Emulated AP details:\n")
				fmt.Fprintf(out, " Emulated address  : 0x%x\n", a.emuBase)
				fmt.Fprintf(out, " Emulated size     : 0x%x\n", a.emuSize)
				for i, num := range a.emuAPList {
					fmt.Fprintf(out, " Emulated AP [%d]  : %d\n", i, num)
				}
			}
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "device device_path",
		Short: "set the dmem memory access device (default: /dev/mem)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.DevicePath = args[0]
			return nil
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "base_address address",
		Short: "set the dmem dap AP memory map base address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseU64(args[0])
			if err != nil {
				return err
			}
			a.BaseAddress = val
			return nil
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "ap_address_offset offset",
		Short: "set the offsets of each ap index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseU64(args[0])
			if err != nil {
				return err
			}
			if val > 0xffffffff {
				return fmt.Errorf("ap offset 0x%x out of range", val)
			}
			a.APOffset = uint32(val)
			return nil
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "max_aps n",
		Short: "set the maximum number of APs this will support",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseU64(args[0])
			if err != nil {
				return err
			}
			if val > 0xff {
				return fmt.Errorf("max aps %d out of range", val)
			}
			a.MaxAPs = uint8(val)
			return nil
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "emu_ap_list n...",
		Short: "set the list of AP indices to be emulated (upto max)",
		Args:  cobra.RangeArgs(1, maxEmulatedAPs),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := make([]uint64, 0, len(args))
			for _, arg := range args {
				val, err := parseU64(arg)
				if err != nil {
					return err
				}
				list = append(list, val)
			}
			return a.SetEmulatedAPs(list)
		},
	})

	dmemCmd.AddCommand(&cobra.Command{
		Use:   "emu_base_address base_address address_window_size",
		Short: "set the base address and size of emulated AP range (all emulated APs access this range)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseU64(args[0])
			if err != nil {
				return err
			}
			size, err := parseU64(args[1])
			if err != nil {
				return err
			}
			a.SetEmulatedWindow(base, size)
			return nil
		},
	})

	return dmemCmd
}
