package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hornetflow/internal/metadata"
)

func newMetadataCommand() *cobra.Command {
	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Release metadata utilities",
	}
	metadataCmd.AddCommand(newMetadataValidateCommand())
	return metadataCmd
}

func newMetadataValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <path>",
		Short:       "Validate a release metadata file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := metadata.LoadRelease(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Metadata valid")
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"origin", release.Origin},
					{"url", release.URL},
					{"label", release.Label},
					{"marker", release.Marker},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
