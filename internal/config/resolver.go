package config

import (
	"fmt"
	"maps"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceConfig indicates value came from the project config file.
	SourceConfig ConfigSource = "config"
	// SourceManifest indicates value came from the package.json publish block.
	SourceManifest ConfigSource = "manifest"
)

// ResolvedValue records the winning value of one key and the values it
// replaced.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// ResolveOptions are the inputs of Resolve.
type ResolveOptions struct {
	// Fs is the project directory.
	Fs afero.Fs

	// Flags holds the defaults with command-line flags applied.
	Flags ReleaseConfig

	// Changed reports whether a flag was set on the command line.
	Changed func(flag string) bool

	// ConfigFile is an explicit config file path (--config or PUBLISH_CONFIG).
	ConfigFile string

	// Manifest supplies the publish override block. May be nil.
	Manifest *Manifest
}

// Result is the outcome of Resolve.
type Result struct {
	Config     *ReleaseConfig
	Values     []ResolvedValue
	ConfigFile string
	Warnings   []string
}

// Resolve merges, key by key and in increasing precedence, the defaults,
// command-line flags, the project config file and the manifest publish
// block. Later sources replace earlier values; lists are replaced, not
// appended.
func Resolve(opts ResolveOptions) (*Result, error) {
	fileLayer, path, err := LoadConfigFile(opts.Fs, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	var manifestLayer map[string]any
	if opts.Manifest != nil {
		manifestLayer = opts.Manifest.Publish
	}

	file, fileWarnings := canonicalize(fileLayer, "config file "+path)
	manifest, manifestWarnings := canonicalize(manifestLayer, ManifestFile+` "publish"`)

	cfg := opts.Flags
	cfg.PreScripts = append([]string(nil), opts.Flags.PreScripts...)

	if err := apply(&cfg, file); err != nil {
		return nil, oerrors.NewConfigError(err.Error(), path, "")
	}
	if err := apply(&cfg, manifest); err != nil {
		return nil, oerrors.NewConfigError(err.Error(), ManifestFile, "")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	values, err := provenance(opts, file, manifest, &cfg)
	if err != nil {
		return nil, err
	}

	return &Result{
		Config:     &cfg,
		Values:     values,
		ConfigFile: path,
		Warnings:   append(fileWarnings, manifestWarnings...),
	}, nil
}

// canonicalize maps the keys of a layer to their canonical spelling and
// reports unknown keys.
func canonicalize(layer map[string]any, origin string) (map[string]any, []string) {
	if len(layer) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(layer))
	var warnings []string

	for k, v := range layer {
		key, ok := canonicalKey(k)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key %q in %s", k, origin))
			continue
		}
		if v == nil {
			continue
		}
		out[key] = v
	}

	sort.Strings(warnings)
	return out, warnings
}

// apply decodes a layer onto cfg. Keys absent from the layer keep their
// current value.
func apply(cfg *ReleaseConfig, layer map[string]any) error {
	if len(layer) == 0 {
		return nil
	}

	if _, ok := layer["preScripts"]; ok {
		cfg.PreScripts = nil
	}

	// MergeConfigMap lowercases the keys of the map it is given.
	v := viper.New()
	if err := v.MergeConfigMap(maps.Clone(layer)); err != nil {
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}

	return nil
}

// AsMap returns the configuration keyed by canonical key.
func (c *ReleaseConfig) AsMap() (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(c, &out); err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	return out, nil
}

func provenance(opts ResolveOptions, file, manifest map[string]any, final *ReleaseConfig) ([]ResolvedValue, error) {
	def := Default()
	defaults, err := def.AsMap()
	if err != nil {
		return nil, err
	}
	flags, err := opts.Flags.AsMap()
	if err != nil {
		return nil, err
	}
	resolved, err := final.AsMap()
	if err != nil {
		return nil, err
	}

	values := make([]ResolvedValue, 0, len(Keys))
	for _, key := range Keys {
		rv := ResolvedValue{
			Key:      key,
			Source:   SourceDefault,
			Shadowed: make(map[ConfigSource]any),
		}
		current := defaults[key]

		if opts.Changed != nil && opts.Changed(FlagName(key)) {
			rv.Shadowed[rv.Source] = current
			rv.Source, current = SourceFlag, flags[key]
		}
		if v, ok := file[key]; ok {
			rv.Shadowed[rv.Source] = current
			rv.Source, current = SourceConfig, v
		}
		if _, ok := manifest[key]; ok {
			rv.Shadowed[rv.Source] = current
			rv.Source = SourceManifest
		}

		rv.Value = resolved[key]
		if secretKeys[key] {
			rv.Value = mask(rv.Value)
			for s, v := range rv.Shadowed {
				rv.Shadowed[s] = mask(v)
			}
		}

		values = append(values, rv)
	}

	return values, nil
}

func mask(v any) any {
	if v == nil || reflect.ValueOf(v).IsZero() {
		return v
	}
	return "********"
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)

		sources := make([]string, 0, len(v.Shadowed))
		for s := range v.Shadowed {
			sources = append(sources, string(s))
		}
		sort.Strings(sources)

		for _, s := range sources {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", s,
				"shadowed_value", v.Shadowed[ConfigSource(s)],
			)
		}
	}
}
