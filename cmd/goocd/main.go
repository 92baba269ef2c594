// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Command goocd drives the mspm0 flash driver over the dmem DAP-direct
// transport. It stands in for a full debug session: configure the dmem
// window, probe the chip, then erase, program or protect flash.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/marcinbor85/gohex"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/nmenon/goocd/flash"
	"github.com/nmenon/goocd/flash/mspm0"
	"github.com/nmenon/goocd/jtag/adiv5"
	"github.com/nmenon/goocd/jtag/dmem"
	"github.com/nmenon/goocd/target"
)

// cliTarget assumes the core was halted before this tool runs; a
// standalone invocation has no run control of its own.
type cliTarget struct {
	target.Bus
}

func (t *cliTarget) State() target.State {
	return target.StateHalted
}

func (t *cliTarget) KeepAlive() {}

type session struct {
	adapter *dmem.Adapter
	driver  *flash.Driver
	bank    *flash.Bank
}

// open initializes the transport and probes the requested bank.
func (s *session) open(bankBase uint64, apNum uint64) error {
	if err := s.adapter.Init(); err != nil {
		return err
	}

	dap := &adiv5.DAP{Ops: s.adapter}
	bus := adiv5.NewMemAPBus(dap.AP(apNum))

	s.bank = &flash.Bank{
		Name:   "mspm0",
		Base:   bankBase,
		Target: &cliTarget{bus},
	}

	if err := s.driver.BankCommand(s.bank); err != nil {
		s.adapter.Quit()
		return err
	}
	if err := s.driver.Probe(s.bank); err != nil {
		s.adapter.Quit()
		return err
	}

	return nil
}

func (s *session) close() {
	if s.driver.FreeDriverPriv != nil && s.bank != nil {
		s.driver.FreeDriverPriv(s.bank)
	}
	s.adapter.Quit()
}

func bankBaseFor(name string) (uint64, error) {
	switch name {
	case "main":
		return 0x0, nil
	case "nonmain":
		return 0x41c00000, nil
	case "data":
		return 0x41d00000, nil
	default:
		return 0, fmt.Errorf("unknown bank %q (want main, nonmain or data)", name)
	}
}

// hexSegments loads an Intel HEX image and returns its data segments
// in address order.
func hexSegments(path string) ([]gohex.DataSegment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	segments := mem.GetDataSegments()
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Address < segments[j].Address
	})

	return segments, nil
}

func main() {
	log := logrus.New()
	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	mspm0.SetLogger(log)
	dmem.SetLogger(log)

	adapter := dmem.New()
	s := &session{adapter: adapter, driver: mspm0.Driver()}

	var bankName string
	var apNum uint64
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "goocd",
		Short:         "MSPM0 flash tool over the dmem DAP-direct transport",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&bankName, "bank", "main",
		"flash bank: main, nonmain or data")
	rootCmd.PersistentFlags().Uint64Var(&apNum, "ap", 0,
		"AP index carrying the target memory bus")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"debug logging")

	rootCmd.AddCommand(adapter.Commands())

	withBank := func(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			base, err := bankBaseFor(bankName)
			if err != nil {
				return err
			}
			if err := s.open(base, apNum); err != nil {
				return err
			}
			defer s.close()
			return run(cmd, args)
		}
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "probe the chip and print its identification",
		Args:  cobra.NoArgs,
		RunE: withBank(func(cmd *cobra.Command, args []string) error {
			summary, err := s.driver.Info(s.bank)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "erase first last",
		Short: "erase sectors [first, last)",
		Args:  cobra.ExactArgs(2),
		RunE: withBank(func(cmd *cobra.Command, args []string) error {
			var first, last uint32
			if _, err := fmt.Sscanf(args[0]+" "+args[1], "%d %d", &first, &last); err != nil {
				return err
			}
			if err := s.driver.ProtectCheck(s.bank); err != nil {
				return err
			}
			return s.driver.Erase(s.bank, first, last)
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "protect on|off first last",
		Short: "set or clear write protection on sectors [first, last]",
		Args:  cobra.ExactArgs(3),
		RunE: withBank(func(cmd *cobra.Command, args []string) error {
			var set int
			switch args[0] {
			case "on":
				set = 1
			case "off":
				set = 0
			default:
				return fmt.Errorf("want on or off, got %q", args[0])
			}
			var first, last uint32
			if _, err := fmt.Sscanf(args[1]+" "+args[2], "%d %d", &first, &last); err != nil {
				return err
			}
			return s.driver.Protect(s.bank, set, first, last)
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "write image.hex",
		Short: "program an Intel HEX image into the bank",
		Args:  cobra.ExactArgs(1),
		RunE: withBank(func(cmd *cobra.Command, args []string) error {
			segments, err := hexSegments(args[0])
			if err != nil {
				return err
			}

			if err := s.driver.ProtectCheck(s.bank); err != nil {
				return err
			}

			total := 0
			for _, seg := range segments {
				total += len(seg.Data)
			}

			bar := progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Programming"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)

			for _, seg := range segments {
				offset := seg.Address - uint32(s.bank.Base)
				if err := s.driver.Write(s.bank, seg.Data, offset); err != nil {
					return err
				}
				bar.Add(len(seg.Data))
			}
			bar.Finish()

			fmt.Fprintf(cmd.OutOrStdout(), "Programmed %d bytes in %d segment(s)\n",
				total, len(segments))
			return nil
		}),
	})

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
