package cmd

import (
	"fmt"
	"runtime"

	"github.com/internlog/server/internal/api"
	"github.com/spf13/cobra"
)

// Set through -ldflags "-X github.com/internlog/server/cmd/server/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// buildInfo is what the version command prints and what the router reports on /version.
func buildInfo() api.BuildInfo {
	return api.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			build := buildInfo()
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), build.Version)
				return err
			}

			rows := [][2]string{
				{"version", build.Version},
				{"commit", build.GitCommit},
				{"built", build.BuildDate},
				{"go", runtime.Version()},
				{"platform", runtime.GOOS + "/" + runtime.GOARCH},
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, "internlog server"); err != nil {
				return err
			}
			for _, row := range rows {
				if _, err := fmt.Fprintf(out, "  %-9s %s\n", row[0]+":", row[1]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
