// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
)

// NewConfigCmd creates the config command group. flags are the release
// flags registered on the root command.
func NewConfigCmd(gc *cmdtypes.GlobalConfig, flags *cmdutil.ReleaseFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Create, inspect and validate the publish configuration of a project.`,
	}

	c.AddCommand(NewConfigInitCmd(gc))
	c.AddCommand(NewConfigShowCmd(gc, flags))
	c.AddCommand(NewConfigVetCmd(gc, flags))

	return c
}
