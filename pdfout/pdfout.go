// Package pdfout plays composed pages back onto a gofpdf document.
//
// Coordinates are millimetres from the top-left corner of the page. Every
// face of the font registry is embedded before the first page is added, and
// background templates are imported and size-checked before any content
// is drawn, so a bad asset never yields a half-written document.
package pdfout

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/overlay"
)

// Document is a finished sequence of pages ready for output.
type Document struct {
	Title     string
	Page      grid.Size   // mm, shared by every page
	Pages     [][]draw.Op // playback order per page
	Templates []string    // background PDFs, template i mod len under page i
}

// Write renders doc and writes the PDF to w.
func Write(w io.Writer, doc Document, opts ...Option) error {
	pdf, err := render(doc, newConfig(opts))
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return newPDFError("Output", err)
	}
	return nil
}

// Bytes renders doc into memory.
func Bytes(doc Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders doc and saves it to path. The file is created only
// after rendering succeeded; it is closed on every path and removed again
// if writing fails.
func WriteFile(path string, doc Document, opts ...Option) (err error) {
	pdf, err := render(doc, newConfig(opts))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pdfout: creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("pdfout: closing %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := pdf.Output(f); err != nil {
		return newPDFError("Output", err)
	}
	return nil
}

func render(doc Document, cfg *config) (*gofpdf.Fpdf, error) {
	if doc.Page.W <= 0 || doc.Page.H <= 0 {
		return nil, ErrNoPageSize
	}
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: doc.Page.W, Ht: doc.Page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.compress)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if cfg.creator != "" {
		pdf.SetCreator(cfg.creator, true)
	}
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
	}

	for _, face := range cfg.fonts.Faces() {
		pdf.AddUTF8FontFromBytes(face.Name(), "", face.Data())
		if pdf.Err() {
			return nil, newPDFError("AddUTF8Font", fmt.Errorf("%s: %w", face.Name(), pdf.Error()))
		}
	}

	set, err := overlay.Load(pdf, doc.Page, doc.Templates...)
	if err != nil {
		return nil, err
	}

	p := player{pdf: pdf, fonts: cfg.fonts, vectors: make(map[string]*vector)}
	ops := 0
	for i, page := range doc.Pages {
		pdf.AddPage()
		set.Stamp(pdf, i)
		for _, op := range page {
			if err := p.play(op); err != nil {
				return nil, fmt.Errorf("pdfout: page %d: %w", i+1, err)
			}
		}
		if pdf.Err() {
			return nil, newPDFError(fmt.Sprintf("page %d", i+1), pdf.Error())
		}
		ops += len(page)
	}

	cfg.log.Debug("document rendered",
		zap.String("title", doc.Title),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("ops", ops),
		zap.Int("templates", set.Len()),
		zap.Int("vectors", len(p.vectors)))
	return pdf, nil
}
