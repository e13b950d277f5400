/*
Package config reads the site configuration.

The configuration is a TOML file:

	content_path = "."        # folder holding content/, templates/ and assets/
	output_path = "public"    # where the site is written
	markdown = "goldmark"     # or "blackfriday"
	workers = 0               # concurrent jobs, 0 means one per CPU
	orphans = "drop"          # or "error"
	template_cache_bytes = 10485760
	metrics_file = ""         # Prometheus textfile, empty to disable

	[site]
	title = "My site"
	description = "Things I wrote"

Unknown keys are rejected. Relative paths are relative to the working directory.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/cache"
	"github.com/ancientlore/quire/content"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "config.toml"

// Folders below the content path.
const (
	ContentFolder   = "content"
	TemplatesFolder = "templates"
	AssetsFolder    = "assets"
)

// Site holds the values every template can refer to.
type Site struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Config is the build configuration.
type Config struct {
	Site               Site   `toml:"site"`
	ContentPath        string `toml:"content_path"`
	OutputPath         string `toml:"output_path"`
	Markdown           string `toml:"markdown"`
	Workers            int    `toml:"workers"`
	Orphans            string `toml:"orphans"`
	TemplateCacheBytes int64  `toml:"template_cache_bytes"`
	MetricsFile        string `toml:"metrics_file"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		ContentPath:        ".",
		OutputPath:         "public",
		Markdown:           "goldmark",
		Orphans:            "drop",
		TemplateCacheBytes: cache.DefaultSize,
	}
}

// Load reads and validates the configuration in filename.
func Load(filename string) (Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, builderr.New(builderr.ConfigRead, filename, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		var be *builderr.Error
		if errors.As(err, &be) {
			be.Path = filename
		}
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration on top of the defaults.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	d := toml.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	if err := d.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			err = errors.New(strict.String())
		}
		return Config{}, builderr.New(builderr.ParseConfig, "", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that decode but make no sense.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return &builderr.Error{Kind: builderr.ParseConfig, Detail: fmt.Sprintf(format, args...)}
	}
	if c.ContentPath == "" {
		return invalid("content_path is empty")
	}
	if c.OutputPath == "" {
		return invalid("output_path is empty")
	}
	if _, err := content.RendererByName(c.Markdown); err != nil {
		return invalid("%v", err)
	}
	if _, err := content.ParseOrphanPolicy(c.Orphans); err != nil {
		return invalid("%v", err)
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	if c.TemplateCacheBytes <= 0 {
		return invalid("template_cache_bytes must be positive, got %d", c.TemplateCacheBytes)
	}
	return nil
}

// ContentDir returns the folder holding the Markdown tree.
func (c Config) ContentDir() string {
	return filepath.Join(c.ContentPath, ContentFolder)
}

// TemplatesDir returns the folder holding the templates.
func (c Config) TemplatesDir() string {
	return filepath.Join(c.ContentPath, TemplatesFolder)
}

// AssetsDir returns the folder mirrored verbatim into the output.
func (c Config) AssetsDir() string {
	return filepath.Join(c.ContentPath, AssetsFolder)
}
