package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
)

var disasmOutput string

func init() {
	disasmCmd.Flags().StringVarP(&disasmOutput, "output", "o", config.STDIO, "Source file to write, '-' is stdout")
}

var disasmCmd = &cobra.Command{
	Use:   "disasm IMG",
	Short: "Disassemble a binary image into source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		img, err := readImageFile(args[0])
		if err != nil {
			return
		}

		// The layout is recovered before the output is created.
		dis := &cpu.Disassembler{Verbose: conf.Verbose, Log: log}
		text, err := dis.Disassemble(img)
		if err != nil {
			return
		}

		return writeOutput(disasmOutput, func(w io.Writer) (err error) {
			_, err = io.WriteString(w, text)
			return
		})
	},
}
