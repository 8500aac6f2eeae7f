package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
)

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd(gc *cmdtypes.GlobalConfig, flags *cmdutil.ReleaseFlags) *cobra.Command {
	var out cmdutil.OutputFlags

	c := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long: `Show every configuration value a release would use and where it came
from: default, flag, config or manifest. Secrets are masked.

Release flags given here take part in the resolution.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdutil.ReportError(runShow(c, gc, flags, out.Format))
		},
	}

	out.AddTo(c)
	return c
}

func runShow(c *cobra.Command, gc *cmdtypes.GlobalConfig, flags *cmdutil.ReleaseFlags, format string) error {
	f, err := cmdutil.ParseOutputFormat(format)
	if err != nil {
		return err
	}

	fs, err := gc.ProjectFs()
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	res, err := flags.Resolve(fs, c.Flags().Changed)
	if err != nil {
		return err
	}

	return cmdutil.WriteResolvedValues(c.OutOrStdout(), f, res.Values)
}
