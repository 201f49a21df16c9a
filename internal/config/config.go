// Package config loads tagsheet settings from tagsheet.toml, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cosmicflow/tagsheet/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. TAGSHEET_SITE_HOST.
const EnvPrefix = "TAGSHEET"

// Config holds all tagsheet configuration
type Config struct {
	Site      SiteConfig
	Fonts     FontsConfig
	Templates TemplatesConfig
	Logo      LogoConfig
	Log       logger.Config
	Database  DatabaseConfig
	Output    OutputConfig
}

// SiteConfig names the public shop product URLs point at.
type SiteConfig struct {
	Host string
}

// FontsConfig locates the font family. An empty Dir selects the built-in
// Go fonts.
type FontsConfig struct {
	Dir     string
	Regular string
	Medium  string
	Bold    string
}

// TemplatesConfig locates background artwork.
type TemplatesConfig struct {
	Dir          string
	BackingFront string
	BackingBack  string
}

// LogoConfig locates the price tag logo. Empty means no logo.
type LogoConfig struct {
	Path string
}

// DatabaseConfig holds catalog database settings
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// OutputConfig holds where generated documents go.
type OutputConfig struct {
	Dir string
}

// Load reads .env from the working directory if present, then
// tagsheet.toml from the working directory, then TAGSHEET_ variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return LoadFrom(".")
}

// LoadFrom is Load without the .env step, searching dirs for
// tagsheet.toml.
// Priority (highest to lowest):
// 1. Environment variables with TAGSHEET_ prefix
// 2. tagsheet.toml
// 3. Built-in defaults
func LoadFrom(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("tagsheet")
	v.SetConfigType("toml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading tagsheet.toml: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Site: SiteConfig{Host: v.GetString("site.host")},
		Fonts: FontsConfig{
			Dir:     v.GetString("fonts.dir"),
			Regular: v.GetString("fonts.regular"),
			Medium:  v.GetString("fonts.medium"),
			Bold:    v.GetString("fonts.bold"),
		},
		Templates: TemplatesConfig{
			Dir:          v.GetString("templates.dir"),
			BackingFront: v.GetString("templates.backing_front"),
			BackingBack:  v.GetString("templates.backing_back"),
		},
		Logo: LogoConfig{Path: v.GetString("logo.path")},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database.url"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Output: OutputConfig{Dir: v.GetString("output.dir")},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.host", "cosmicflowch.art")
	v.SetDefault("fonts.dir", "")
	v.SetDefault("fonts.regular", "Exo2.0-Regular.ttf")
	v.SetDefault("fonts.medium", "Exo2.0-Medium.ttf")
	v.SetDefault("fonts.bold", "Exo2.0-Bold.ttf")
	v.SetDefault("templates.dir", "assets/templates")
	v.SetDefault("templates.backing_front", "backing-cards-front.pdf")
	v.SetDefault("templates.backing_back", "backing-cards-back.pdf")
	v.SetDefault("logo.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("output.dir", ".")
}

func (c *Config) validate() error {
	if strings.Contains(c.Site.Host, "/") {
		return fmt.Errorf("config: site.host %q must be a bare host name", c.Site.Host)
	}
	if c.Site.Host == "" {
		return errors.New("config: site.host is required")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q must be json or console", c.Log.Format)
	}
	if c.Database.MaxOpenConns < 0 {
		return errors.New("config: database.max_open_conns must not be negative")
	}
	return nil
}

// FontFiles maps registered face names to file names.
func (f FontsConfig) FontFiles() map[string]string {
	return map[string]string{
		"regular": f.Regular,
		"medium":  f.Medium,
		"bold":    f.Bold,
	}
}

// BackingTemplates returns the backing card templates, front first.
func (t TemplatesConfig) BackingTemplates() []string {
	return []string{t.BackingFront, t.BackingBack}
}
