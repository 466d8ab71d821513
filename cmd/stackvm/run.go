package main

import (
	"github.com/spf13/cobra"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/emulator"
)

var (
	runSource   bool
	runInput    string
	runOutput   string
	runMaxTicks int
)

func init() {
	runCmd.Flags().BoolVarP(&runSource, "source", "s", false, "Assemble FILE as source before running")
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Console input file, '-' is stdin")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Console output file, '-' is stdout")
	runCmd.Flags().IntVar(&runMaxTicks, "max-ticks", 0, "Most instructions to execute, 0 is unlimited")
}

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a binary image, or a source file with --source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Flags().Changed("input") {
			conf.Run.Input = runInput
		}
		if cmd.Flags().Changed("output") {
			conf.Run.Output = runOutput
		}
		if cmd.Flags().Changed("max-ticks") {
			conf.Run.MaxTicks = runMaxTicks
		}

		var prog *cpu.Program
		if runSource {
			prog, err = assembleFile(args[0])
		} else {
			var img *cpu.Image
			img, err = readImageFile(args[0])
			prog = &cpu.Program{Image: img}
		}
		if err != nil {
			return
		}

		inf, err := openInput(conf.Run.Input)
		if err != nil {
			return
		}
		defer inf.Close()

		ouf, err := createOutput(conf.Run.Output)
		if err != nil {
			return
		}
		defer ouf.Close()

		emu := emulator.NewEmulator()
		emu.Verbose = conf.Verbose
		emu.Log = log
		emu.MaxTicks = conf.Run.MaxTicks
		emu.Tape.Input = inf
		emu.Tape.Output = ouf

		err = emu.Load(prog)
		if err != nil {
			return
		}

		err = emu.Run()

		log.WithField("ticks", emu.Ticks()).Debugf("%v: halted", args[0])

		return
	},
}
