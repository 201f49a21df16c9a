package tagsheet

import (
	"time"

	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/textfit"
)

// Option is a functional option for configuring a Generator via New.
type Option func(*generatorConfig)

type generatorConfig struct {
	fonts       *textfit.Registry
	log         *zap.Logger
	host        string
	logo        []byte
	logoPath    string
	assetDir    string
	templateDir string
	templates   map[Kind][]string
	compress    bool
	created     time.Time
	cache       *grid.Cache
}

// WithFonts sets the font family used for measuring and embedding. It
// defaults to the Go fonts.
func WithFonts(fonts *textfit.Registry) Option {
	return func(c *generatorConfig) {
		c.fonts = fonts
	}
}

// WithLogger sets the logger. Generation logs one info line per document.
func WithLogger(log *zap.Logger) Option {
	return func(c *generatorConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHost sets the site host product URLs point at.
func WithHost(host string) Option {
	return func(c *generatorConfig) {
		c.host = host
	}
}

// WithLogo sets the SVG drawn on price tag fronts. Without a logo the
// price tag front carries no artwork.
func WithLogo(svg []byte) Option {
	return func(c *generatorConfig) {
		c.logo = svg
	}
}

// WithLogoFile is WithLogo reading the SVG from path when a document is
// generated.
func WithLogoFile(path string) Option {
	return func(c *generatorConfig) {
		c.logoPath = path
	}
}

// WithAssetDir resolves relative logo paths named in layouts against dir.
func WithAssetDir(dir string) Option {
	return func(c *generatorConfig) {
		c.assetDir = dir
	}
}

// WithTemplateDir resolves the template file names of built-in layouts
// against dir.
func WithTemplateDir(dir string) Option {
	return func(c *generatorConfig) {
		c.templateDir = dir
	}
}

// WithTemplates replaces the background templates for kind. Paths are
// used as given; an empty list prints without backgrounds.
func WithTemplates(kind Kind, paths ...string) Option {
	return func(c *generatorConfig) {
		c.templates[kind] = paths
	}
}

// WithCompression toggles PDF stream compression (default on).
func WithCompression(on bool) Option {
	return func(c *generatorConfig) {
		c.compress = on
	}
}

// WithCreationDate fixes the document creation date.
func WithCreationDate(t time.Time) Option {
	return func(c *generatorConfig) {
		c.created = t
	}
}
