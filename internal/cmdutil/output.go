package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relkit/publish/internal/config"
	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
)

// ParseOutputFormat validates the --output flag.
func ParseOutputFormat(s string) (output.OutputFormat, error) {
	f, ok := output.ParseFormat(s)
	if !ok {
		return "", oerrors.NewConfigError(
			fmt.Sprintf("unknown output format %q", s),
			"--output",
			"expected one of: "+strings.Join(output.ValidFormats(), ", "),
		)
	}
	return f, nil
}

type valueEntry struct {
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// WriteResolvedValues writes the resolved configuration in the given format.
func WriteResolvedValues(w io.Writer, format output.OutputFormat, values []config.ResolvedValue) error {
	entries := make([]valueEntry, 0, len(values))
	for _, v := range values {
		entries = append(entries, valueEntry{Key: v.Key, Value: v.Value, Source: string(v.Source)})
	}

	switch format {
	case output.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case output.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	default:
		t := output.NewTable("KEY", "VALUE", "SOURCE")
		for _, e := range entries {
			t.Row(e.Key, formatValue(e.Value), output.Dim(e.Source))
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}
