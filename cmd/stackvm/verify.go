package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ezrec/stackvm/scenario"
)

var verifyCmd = &cobra.Command{
	Use:   "verify MANIFEST.star...",
	Short: "Check the scenarios of Starlark manifests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		loader := &scenario.Loader{Verbose: conf.Verbose, Log: log}

		var errs []error
		for _, path := range args {
			manifest, err := loader.Load(path, nil)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			passed := 0
			for _, sc := range manifest.Scenarios {
				err := sc.Run()
				if err != nil {
					log.WithField("manifest", path).Error(err)
					errs = append(errs, err)
					continue
				}
				passed++
			}

			log.WithField("manifest", path).Infof("%d of %d scenarios passed", passed, len(manifest.Scenarios))
		}

		return errors.Join(errs...)
	},
}
