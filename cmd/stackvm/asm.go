package main

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	asmOutput  string
	asmListing string
)

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "Image file to write (default: SRC with .img suffix)")
	asmCmd.Flags().StringVarP(&asmListing, "listing", "l", "", "Listing file to write, '-' is stdout")
}

var asmCmd = &cobra.Command{
	Use:   "asm SRC",
	Short: "Assemble a source file into a binary image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		src := args[0]

		prog, err := assembleFile(src)
		if err != nil {
			return
		}

		output := asmOutput
		if len(output) == 0 {
			output = strings.TrimSuffix(src, filepath.Ext(src)) + ".img"
		}

		err = writeOutput(output, func(w io.Writer) (err error) {
			_, err = prog.Image.WriteTo(w)
			return
		})
		if err != nil {
			return
		}

		if len(asmListing) != 0 {
			err = writeOutput(asmListing, prog.Fprint)
			if err != nil {
				return
			}
		}

		log.WithFields(logrus.Fields{
			"ip": prog.Image.Ip(),
			"sp": prog.Image.Sp(),
		}).Infof("%v: assembled to %v", src, output)

		return
	},
}
