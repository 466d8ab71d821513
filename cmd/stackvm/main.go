// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command stackvm assembles, runs and disassembles stack machine programs.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/stackvm/config"
)

var (
	configPath string
	verbose    bool

	conf *config.Config
	log  = logrus.New()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: per-user config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	rootCmd.AddCommand(asmCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(verifyCmd)
}

var rootCmd = &cobra.Command{
	Use:           "stackvm",
	Short:         "Stack machine assembler, emulator and disassembler",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if len(configPath) == 0 {
			conf, err = config.LoadDefault()
		} else {
			conf, err = config.Load(configPath)
		}
		if err != nil {
			return
		}

		if cmd.Flags().Changed("verbose") {
			conf.Verbose = verbose
		}

		logger, err := conf.Logger()
		if err != nil {
			return
		}

		log = logger
		return
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Errorf("%v: %v", rootCmd.Name(), err)
		os.Exit(1)
	}
}
