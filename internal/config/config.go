package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LoaderSource   = "source"
	LoaderPackages = "packages"
)

// Options is the finished configuration consumed by a conversion run.
type Options struct {
	Name        string   `yaml:"name" toml:"name"`
	EntryPoints []string `yaml:"entry_points" toml:"entry_points"`
	// BasePath is stripped from source file names recorded on reflections.
	BasePath string `yaml:"base_path" toml:"base_path"`
	// Loader selects how types are resolved: "source" or "packages".
	Loader string `yaml:"loader" toml:"loader"`

	ExternalPattern      []string `yaml:"external_pattern" toml:"external_pattern"`
	ExcludeExternals     bool     `yaml:"exclude_externals" toml:"exclude_externals"`
	ExcludeNotExported   bool     `yaml:"exclude_not_exported" toml:"exclude_not_exported"`
	ExcludeNotDocumented bool     `yaml:"exclude_not_documented" toml:"exclude_not_documented"`
	ExcludePrivate       bool     `yaml:"exclude_private" toml:"exclude_private"`

	Log struct {
		JSON    bool `yaml:"json" toml:"json"`
		Verbose bool `yaml:"verbose" toml:"verbose"`
	} `yaml:"log" toml:"log"`

	Storage struct {
		DBPath string `yaml:"db_path" toml:"db_path"`
	} `yaml:"storage" toml:"storage"`
}

// Default returns the options used when no configuration file is present.
func Default() *Options {
	opts := &Options{
		Loader: LoaderSource,
	}
	opts.Storage.DBPath = "reflectdoc.db"
	return opts
}

// LoadOptions reads a YAML or TOML configuration file on top of Default and
// applies REFLECTDOC_* environment overrides. A missing file is not an error.
func LoadOptions(path string) (*Options, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	opts := Default()

	// 2. Load config file
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, opts); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	// 3. Override with Environment Variables if present
	applyEnv(opts)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func decode(path string, data []byte, opts *Options) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), opts)
		return err
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, opts)
	default:
		return errors.Newf("unsupported config format %q", filepath.Ext(path))
	}
}

func applyEnv(opts *Options) {
	if name := os.Getenv("REFLECTDOC_NAME"); name != "" {
		opts.Name = name
	}
	if loader := os.Getenv("REFLECTDOC_LOADER"); loader != "" {
		opts.Loader = loader
	}
	if db := os.Getenv("REFLECTDOC_DB"); db != "" {
		opts.Storage.DBPath = db
	}
	if v, ok := envBool("REFLECTDOC_EXCLUDE_NOT_EXPORTED"); ok {
		opts.ExcludeNotExported = v
	}
	if v, ok := envBool("REFLECTDOC_LOG_JSON"); ok {
		opts.Log.JSON = v
	}
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate checks option values that the converter relies on.
func (o *Options) Validate() error {
	switch o.Loader {
	case "", LoaderSource, LoaderPackages:
	default:
		return errors.WithHint(
			errors.Newf("unknown loader %q", o.Loader),
			"use \"source\" or \"packages\"",
		)
	}
	for _, p := range o.ExternalPattern {
		if _, err := filepath.Match(p, ""); err != nil {
			return errors.Wrapf(err, "invalid external pattern %q", p)
		}
	}
	return nil
}

// IsExternal reports whether file matches one of the external patterns. Patterns
// are matched against the full path and against the base name.
func (o *Options) IsExternal(file string) bool {
	slashed := filepath.ToSlash(file)
	for _, p := range o.ExternalPattern {
		if ok, _ := filepath.Match(p, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(file)); ok {
			return true
		}
	}
	return false
}
