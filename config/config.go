// Package config loads the gitplit configuration file.
//
// The file is TOML and lives at $HOME/.gitplit/config.toml unless another
// path is given. Every key has a default, so a missing file is not an error.
//
//	[repository]
//	dir = ".gitplit_repository"
//	default_branch = "master"
//	initial_message = "initial commit"
//
//	[log]
//	date_format = "2006/01/02 15:04:05"
//
//	[output]
//	color = "auto"    # auto, always or never
//	verbose = false
package config

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/repo"
)

// Values accepted by output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Repository Repository `mapstructure:"repository"`
	Log        Log        `mapstructure:"log"`
	Output     Output     `mapstructure:"output"`

	// File is the config file that was read, empty if none was found
	File string `mapstructure:"-"`
}

type Repository struct {
	Dir            string `mapstructure:"dir"`
	DefaultBranch  string `mapstructure:"default_branch"`
	InitialMessage string `mapstructure:"initial_message"`
}

type Log struct {
	DateFormat string `mapstructure:"date_format"`
}

type Output struct {
	Color   string `mapstructure:"color"`
	Verbose bool   `mapstructure:"verbose"`
}

var defaults = map[string]interface{}{
	"repository.dir":             repo.DefaultDir,
	"repository.default_branch":  repo.DefaultBranch,
	"repository.initial_message": repo.DefaultInitialMessage,
	"log.date_format":            repo.DefaultTimeFormat,
	"output.color":               ColorAuto,
	"output.verbose":             false,
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Repository: Repository{
			Dir:            repo.DefaultDir,
			DefaultBranch:  repo.DefaultBranch,
			InitialMessage: repo.DefaultInitialMessage,
		},
		Log:    Log{DateFormat: repo.DefaultTimeFormat},
		Output: Output{Color: ColorAuto},
	}
}

// DefaultPath returns $HOME/.gitplit/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "finding home directory")
	}
	return filepath.Join(home, ".gitplit", "config.toml"), nil
}

// Load reads the configuration from path on afs. An empty path means the
// default location, which may be missing. An explicitly given path must exist.
func Load(afs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(afs)
	v.SetConfigType("toml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	v.SetConfigFile(path)

	var used string
	if ok, _ := afero.Exists(afs, path); ok {
		if err := v.ReadInConfig(); err != nil {
			return nil, errdefs.InvalidArgument("Error reading config file %s: %v", path, err)
		}
		used = v.ConfigFileUsed()
	} else if explicit {
		return nil, errdefs.InvalidArgument("Config file %s does not exist.", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errdefs.InvalidArgument("Error decoding config file %s: %v", path, err)
	}
	cfg.File = used
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errdefs.InvalidArgument("Unknown output.color %q, use auto, always or never.", c.Output.Color)
	}
	if c.Repository.Dir == "" || filepath.Base(c.Repository.Dir) != c.Repository.Dir {
		return errdefs.InvalidArgument("repository.dir must be a plain directory name.")
	}
	return nil
}

// RepoOptions maps the configuration onto repository options.
func (c *Config) RepoOptions() repo.Options {
	return repo.Options{
		Dir:            c.Repository.Dir,
		DefaultBranch:  c.Repository.DefaultBranch,
		InitialMessage: c.Repository.InitialMessage,
		TimeFormat:     c.Log.DateFormat,
	}
}
