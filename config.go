package tagsheet

import (
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/asset"
	"github.com/cosmicflow/tagsheet/internal/config"
	"github.com/cosmicflow/tagsheet/textfit"
)

// NewFromConfig builds a Generator from loaded settings. Fonts are loaded
// here, so a missing font file fails before any document is requested.
func NewFromConfig(cfg *config.Config, log *zap.Logger) (*Generator, error) {
	fonts := textfit.GoFamily()
	if cfg.Fonts.Dir != "" {
		var err error
		fonts, err = textfit.LoadFamily(cfg.Fonts.Dir, cfg.Fonts.FontFiles())
		if err != nil {
			return nil, err
		}
	}
	var backing []string
	for _, name := range cfg.Templates.BackingTemplates() {
		backing = append(backing, asset.Resolve(cfg.Templates.Dir, name))
	}
	opts := []Option{
		WithFonts(fonts),
		WithLogger(log),
		WithHost(cfg.Site.Host),
		WithTemplateDir(cfg.Templates.Dir),
		WithTemplates(KindBackingCards, backing...),
	}
	if cfg.Logo.Path != "" {
		opts = append(opts, WithLogoFile(cfg.Logo.Path))
	}
	return New(opts...), nil
}
