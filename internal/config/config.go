// Package config loads docsite configuration from YAML or TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// DefaultFile is the config file looked up when none is named explicitly.
const DefaultFile = "docsite.yaml"

// Config represents the application configuration.
type Config struct {
	WebsiteDirectory string `yaml:"website_directory" toml:"website_directory"`
	AssetsDirectory  string `yaml:"assets_directory,omitempty" toml:"assets_directory"`
	SourceDirectory  string `yaml:"source_directory,omitempty" toml:"source_directory"`
	BaseHref         string `yaml:"base_href" toml:"base_href"`

	Layout         string `yaml:"layout,omitempty" toml:"layout"`
	LayoutRequired bool   `yaml:"layout_required,omitempty" toml:"layout_required"`
	Index          string `yaml:"index,omitempty" toml:"index"`

	Clean       bool   `yaml:"clean" toml:"clean"`
	Minify      bool   `yaml:"minify" toml:"minify"`
	Concurrency int    `yaml:"concurrency,omitempty" toml:"concurrency"`
	OnError     string `yaml:"on_error" toml:"on_error"`

	Exclude    []string   `yaml:"exclude,omitempty" toml:"exclude"`
	Extensions Extensions `yaml:"extensions,omitempty" toml:"-"`

	MetricsFile string `yaml:"metrics_file,omitempty" toml:"metrics_file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Clean:   true,
		OnError: "continue",
	}
}

// Load loads configuration from the specified file. Environment variables
// in the file are expanded after .env files have been applied.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ConfigNotFound(configPath)
		}
		return nil, derrors.ConfigInvalid(configPath, err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(expanded, cfg)
	case ".toml":
		err = decodeTOML(expanded, cfg)
	default:
		return nil, derrors.ConfigInvalid(configPath, errUnsupportedFormat)
	}
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// decodeTOML decodes the struct fields and then the extensions value, which
// may be an array of extensions or a table of ext = transform.
func decodeTOML(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	var aux struct {
		Extensions any `toml:"extensions"`
	}
	if err := toml.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Extensions == nil {
		return nil
	}
	ext, err := extensionsFromAny(aux.Extensions)
	if err != nil {
		return err
	}
	cfg.Extensions = ext
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ValidationFailed("config", "configuration file already exists: "+configPath+" (use --force to overwrite)")
	}
	if ext := strings.ToLower(filepath.Ext(configPath)); ext != ".yaml" && ext != ".yml" {
		return derrors.ValidationFailed("config", "init writes YAML; use a .yaml file name")
	}

	example := Config{
		WebsiteDirectory: "./website",
		AssetsDirectory:  "./assets",
		SourceDirectory:  "./docs",
		Layout:           "./layout.html.tmpl",
		Index:            "index.html",
		Clean:            true,
		OnError:          "continue",
		Exclude:          []string{"drafts", "*.bak"},
		Extensions: Extensions{
			{Extension: "html"},
			{Extension: "md", Transform: "markdown"},
			{Extension: "tpl", Transform: "template"},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return derrors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityFatal, "failed to write config file")
	}
	return nil
}
