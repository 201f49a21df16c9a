package pdfout

import (
	"time"

	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/textfit"
)

// Option configures rendering.
type Option func(*config)

type config struct {
	fonts    *textfit.Registry
	log      *zap.Logger
	compress bool
	creator  string
	created  time.Time
}

func newConfig(opts []Option) *config {
	cfg := &config{log: zap.NewNop(), compress: true, creator: "tagsheet"}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.fonts == nil {
		cfg.fonts = textfit.GoFamily()
	}
	return cfg
}

// WithFonts embeds every face of fonts and resolves text ops against it.
// It must be the registry the ops were measured with. Defaults to the Go
// font family.
func WithFonts(fonts *textfit.Registry) Option {
	return func(c *config) {
		c.fonts = fonts
	}
}

// WithLogger logs document statistics at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCompression toggles stream compression (default on).
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// WithCreator sets the creator metadata.
func WithCreator(creator string) Option {
	return func(c *config) {
		c.creator = creator
	}
}

// WithCreationDate fixes the creation date, making output reproducible.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}
