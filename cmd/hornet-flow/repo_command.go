package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hornetflow/internal/gitrepo"
	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
)

func newRepoCommand(ctx *commandContext) *cobra.Command {
	repoCmd := &cobra.Command{
		Use:   "repo",
		Short: "Repository utilities",
	}
	repoCmd.AddCommand(newRepoInfoCommand(ctx))
	return repoCmd
}

func newRepoInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Show provenance and manifests of a local repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				logger = logging.NewNop()
			}

			rows := [][]string{{"path", args[0]}}
			client := gitrepo.NewClient(logger)
			if release, introspectErr := client.Introspect(cmd.Context(), args[0]); introspectErr == nil {
				rows = append(rows,
					[]string{"origin url", release.URL},
					[]string{"label", release.Label},
					[]string{"commit", release.Marker},
				)
			} else {
				rows = append(rows, []string{"git", "not a repository or git unavailable"})
			}

			cad, sim := manifest.Discover(args[0])
			rows = append(rows,
				[]string{"cad manifest", orDash(cad)},
				[]string{"sim manifest", orDash(sim)},
			)

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
