package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

const (
	DefaultInput   = "docs/build/xml"
	DefaultOutput  = "docs/mdx"
	DefaultCSS     = "docs/doxygen.css"
	DefaultProject = "Project"
)

// Config holds the conversion settings. Field defaults mirror the tool's
// documented defaults; relative paths are resolved against ConfigDir when the
// config was loaded from a file, or the working directory otherwise.
type Config struct {
	Input         string `koanf:"input"          validate:"required"`
	Output        string `koanf:"output"         validate:"required"`
	CSS           string `koanf:"css"            validate:"required"`
	Project       string `koanf:"project"        validate:"required"`
	HeadingOffset int    `koanf:"heading_offset"`
	EmitIndex     *bool  `koanf:"emit_index"`
	ConfigDir     string `koanf:"-"`
}

// Default returns a config with every field at its documented default,
// rooted at the current working directory.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.CSS == "" {
		c.CSS = DefaultCSS
	}
	if c.Project == "" {
		c.Project = DefaultProject
	}
	if c.EmitIndex == nil {
		enabled := true
		c.EmitIndex = &enabled
	}
}

// IndexEnabled reports whether a cross-document index should be written.
func (c *Config) IndexEnabled() bool {
	return c.EmitIndex == nil || *c.EmitIndex
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	valErr := v.Struct(c)
	if valErr == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(valErr, "validating config")
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Hint("Set the field in doxmd.yaml or pass the matching flag").
			Errorf("validation failed for config field %q", field)
	}

	return nil
}

// InputDir returns the absolute input directory.
func (c *Config) InputDir() string {
	return c.resolve(c.Input)
}

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string {
	return c.resolve(c.Output)
}

// CSSPath returns the absolute stylesheet output path.
func (c *Config) CSSPath() string {
	return c.resolve(c.CSS)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.ConfigDir == "" {
		return path
	}
	return filepath.Clean(filepath.Join(c.ConfigDir, path))
}
