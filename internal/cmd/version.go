package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show publish version information.

Displays:
  - publish version, commit, and build date
  - the git, npm and gh binaries found in PATH`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.GetInfo()
	tools := version.DetectTools(cmd.Context())

	fmt.Fprintln(cmd.OutOrStdout(), version.FullVersionString(info, tools))
	return nil
}
