package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
	"github.com/relkit/publish/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *cmdtypes.GlobalConfig, flags *cmdutil.ReleaseFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the project configuration",
		Long: `Validate the config file and the "publish" block of package.json
without releasing. Unknown keys are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdutil.ReportError(runVet(c, gc, flags))
		},
	}
}

func runVet(c *cobra.Command, gc *cmdtypes.GlobalConfig, flags *cmdutil.ReleaseFlags) error {
	fs, err := gc.ProjectFs()
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	res, err := flags.Resolve(fs, c.Flags().Changed)
	if err != nil {
		return err
	}

	source := "defaults and package.json"
	if res.ConfigFile != "" {
		source = res.ConfigFile
	}

	msg := "Configuration is valid: " + source
	if n := len(res.Warnings); n > 0 {
		msg = fmt.Sprintf("%s (%d warnings)", msg, n)
	}
	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(msg))
	return nil
}
