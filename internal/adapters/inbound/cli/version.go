package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweetshop/internal/adapters/outbound/gitinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show sweetshop version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sweetshop %s (%s)\n", version, buildCommit("."))
			return nil
		},
	}
}

// buildCommit prefers the commit stamped at link time and falls back to the
// checkout the binary runs from.
func buildCommit(dir string) string {
	if commit != "none" {
		return commit
	}
	g := gitinfo.New()
	if !g.IsGitRepo(dir) {
		return commit
	}
	rev, err := g.Head(dir)
	if err != nil {
		return commit
	}
	return rev.Short()
}
