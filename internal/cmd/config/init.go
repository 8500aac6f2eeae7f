package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
	"github.com/relkit/publish/internal/config"
	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
)

// initFileNames maps --format to the file written.
var initFileNames = map[string]string{
	"json": config.DefaultConfigFile,
	"yaml": ".publishrc.yaml",
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		force  bool
		format string
	)

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a project configuration file",
		Long: `Create a project configuration file holding the default values.

The file is written to .publishrc.json in the project directory, or to
.publishrc.yaml with --format yaml.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdutil.ReportError(runInit(c, gc, format, force))
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	c.Flags().StringVar(&format, "format", "json", "File format: json or yaml")

	return c
}

func runInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, format string, force bool) error {
	name, ok := initFileNames[format]
	if !ok {
		return oerrors.NewConfigError(fmt.Sprintf("unknown format %q", format), "--format", "expected json or yaml")
	}

	fs, err := gc.ProjectFs()
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	exists, err := afero.Exists(fs, name)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return oerrors.NewConfigError(
			"config file already exists",
			name,
			"use --force to overwrite",
		)
	}

	data, err := marshalDefaults(format)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+name))
	return nil
}

func marshalDefaults(format string) ([]byte, error) {
	cfg := config.Default()

	if format == "yaml" {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return append([]byte("# publish configuration\n\n"), data...), nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return append(data, '\n'), nil
}
