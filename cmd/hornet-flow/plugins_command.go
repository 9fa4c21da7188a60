package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hornetflow/internal/plugin"
)

func newPluginsCommand() *cobra.Command {
	pluginsCmd := &cobra.Command{
		Use:   "plugins",
		Short: "Backend plugin utilities",
	}
	pluginsCmd.AddCommand(newPluginsListCommand())
	return pluginsCmd
}

func newPluginsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List registered backend plugins",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range plugin.Names() {
				marker := ""
				if name == plugin.DefaultName {
					marker = "yes"
				}
				rows = append(rows, []string{name, marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Plugin", "Default"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
