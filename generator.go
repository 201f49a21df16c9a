// Package tagsheet lays out price tags and backing cards on double-sided
// PDF sheets.
//
// Items are expanded by quantity, placed cell by cell on a centred grid and
// printed front then back, with the back page mirrored so that each back
// lands behind its front once the sheet is flipped. Backing cards are
// printed over pre-authored background templates.
//
// Basic usage:
//
//	gen := tagsheet.New(tagsheet.WithHost("cosmicflowch.art"))
//	f, _ := os.Create("tags.pdf")
//	defer f.Close()
//	err := gen.PriceTags(f, items)
package tagsheet

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/asset"
	"github.com/cosmicflow/tagsheet/cardtpl"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/overlay"
	"github.com/cosmicflow/tagsheet/pdfout"
	"github.com/cosmicflow/tagsheet/product"
	"github.com/cosmicflow/tagsheet/sheet"
	"github.com/cosmicflow/tagsheet/textfit"
)

// Kind selects a built-in document variant.
type Kind string

const (
	KindPriceTags    Kind = "price-tags"
	KindBackingCards Kind = "backing-cards"
)

// Kinds lists the built-in variants.
var Kinds = []Kind{KindPriceTags, KindBackingCards}

// ParseKind accepts a kind name or its layout name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case string(KindPriceTags), cardtpl.PriceTagName:
		return KindPriceTags, nil
	case string(KindBackingCards), cardtpl.BackingCardName:
		return KindBackingCards, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Generator produces documents. It holds only read-only state and may be
// used from several goroutines; every call owns its own PDF canvas.
type Generator struct {
	cfg generatorConfig
}

// New creates a Generator. Without options it uses the Go fonts, the
// default site host, no logo and template files relative to the working
// directory.
func New(opts ...Option) *Generator {
	cfg := generatorConfig{
		log:       zap.NewNop(),
		host:      product.DefaultHost,
		templates: make(map[Kind][]string),
		compress:  true,
		cache:     &grid.Cache{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fonts == nil {
		cfg.fonts = textfit.GoFamily()
	}
	return &Generator{cfg: cfg}
}

// Fonts returns the font registry documents are measured with.
func (g *Generator) Fonts() *textfit.Registry { return g.cfg.fonts }

// Layout returns the layout of a built-in kind. The price tag drops its
// logo element when no logo is configured.
func (g *Generator) Layout(kind Kind) (*cardtpl.Layout, error) {
	switch kind {
	case KindPriceTags:
		if g.cfg.logo == nil && g.cfg.logoPath == "" {
			return cardtpl.PriceTagWithoutLogo(), nil
		}
		return cardtpl.PriceTag(), nil
	case KindBackingCards:
		return cardtpl.BackingCard(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// PriceTags writes a price tag document for items to w.
func (g *Generator) PriceTags(w io.Writer, items []product.Item) error {
	return g.Generate(w, KindPriceTags, items)
}

// BackingCards writes a backing card document for items to w.
func (g *Generator) BackingCards(w io.Writer, items []product.Item) error {
	return g.Generate(w, KindBackingCards, items)
}

// Generate writes a document of the given kind to w.
func (g *Generator) Generate(w io.Writer, kind Kind, items []product.Item) error {
	l, err := g.Layout(kind)
	if err != nil {
		return err
	}
	doc, err := g.compose(l, g.templatesFor(kind, l), items)
	if err != nil {
		return err
	}
	return pdfout.Write(w, doc, g.pdfOptions()...)
}

// GenerateFile writes a document of the given kind to path. Nothing is
// written unless the whole document rendered.
func (g *Generator) GenerateFile(path string, kind Kind, items []product.Item) error {
	l, err := g.Layout(kind)
	if err != nil {
		return err
	}
	doc, err := g.compose(l, g.templatesFor(kind, l), items)
	if err != nil {
		return err
	}
	return pdfout.WriteFile(path, doc, g.pdfOptions()...)
}

// GenerateLayout writes a document with a custom layout to w. Templates
// named by the layout are resolved against the template directory.
func (g *Generator) GenerateLayout(w io.Writer, l *cardtpl.Layout, items []product.Item) error {
	doc, err := g.compose(l, g.resolve(l.Templates), items)
	if err != nil {
		return err
	}
	return pdfout.Write(w, doc, g.pdfOptions()...)
}

// Compose lays out items for kind without producing PDF output.
func (g *Generator) Compose(kind Kind, items []product.Item) ([]sheet.Page, error) {
	l, err := g.Layout(kind)
	if err != nil {
		return nil, err
	}
	r, sl, err := g.prepare(l, nil, items)
	if err != nil {
		return nil, err
	}
	return sheet.Compose(items, sl, r, sheet.WithLogger(g.cfg.log), sheet.WithGridCache(g.cfg.cache))
}

func (g *Generator) templatesFor(kind Kind, l *cardtpl.Layout) []string {
	if paths, ok := g.cfg.templates[kind]; ok {
		return paths
	}
	return g.resolve(l.Templates)
}

func (g *Generator) resolve(names []string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = asset.Resolve(g.cfg.templateDir, name)
	}
	return paths
}

// prepare validates everything a document depends on before any cell is
// drawn: the items, the fonts and logo of the layout, the grid capacity and
// the templates.
func (g *Generator) prepare(l *cardtpl.Layout, templates []string, items []product.Item) (*cardtpl.Renderer, sheet.Layout, error) {
	if product.TotalQuantity(items) == 0 {
		return nil, sheet.Layout{}, ErrNoItems
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, sheet.Layout{}, err
		}
	}

	opts := []cardtpl.Option{cardtpl.WithHost(g.cfg.host), cardtpl.WithAssetDir(g.cfg.assetDir)}
	switch {
	case g.cfg.logo != nil:
		opts = append(opts, cardtpl.WithLogo(g.cfg.logo))
	case g.cfg.logoPath != "":
		svg, err := asset.ReadFile(asset.KindLogo, g.cfg.logoPath)
		if err != nil {
			return nil, sheet.Layout{}, err
		}
		opts = append(opts, cardtpl.WithLogo(svg))
	}
	r, err := cardtpl.NewRenderer(l, g.cfg.fonts, opts...)
	if err != nil {
		return nil, sheet.Layout{}, err
	}

	sl, err := l.Sheet()
	if err != nil {
		return nil, sheet.Layout{}, err
	}
	if g.cfg.cache.Compute(sl.Cell, sl.Page, sl.Margin, sl.Gap).Capacity() == 0 {
		return nil, sheet.Layout{}, &grid.CapacityError{Cell: sl.Cell, Page: sl.Page, Margin: sl.Margin}
	}
	if err := overlay.Check(sl.Page, templates...); err != nil {
		return nil, sheet.Layout{}, err
	}
	return r, sl, nil
}

func (g *Generator) compose(l *cardtpl.Layout, templates []string, items []product.Item) (pdfout.Document, error) {
	r, sl, err := g.prepare(l, templates, items)
	if err != nil {
		return pdfout.Document{}, err
	}
	pages, err := sheet.Compose(items, sl, r, sheet.WithLogger(g.cfg.log), sheet.WithGridCache(g.cfg.cache))
	if err != nil {
		return pdfout.Document{}, err
	}

	doc := pdfout.Document{Title: l.Title, Page: sl.Page, Templates: templates}
	cells := 0
	for _, p := range pages {
		doc.Pages = append(doc.Pages, p.Ops())
		cells += len(p.Cells)
	}
	g.cfg.log.Info("document composed",
		zap.String("layout", l.Name),
		zap.Int("items", len(items)),
		zap.Int("cells", cells),
		zap.Int("sheets", len(pages)/2),
		zap.Int("pages", len(pages)),
		zap.Strings("templates", baseNames(templates)))
	return doc, nil
}

func (g *Generator) pdfOptions() []pdfout.Option {
	return []pdfout.Option{
		pdfout.WithFonts(g.cfg.fonts),
		pdfout.WithLogger(g.cfg.log),
		pdfout.WithCompression(g.cfg.compress),
		pdfout.WithCreationDate(g.cfg.created),
	}
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
