// Package overlay places generated pages over pre-authored background
// templates.
//
// Templates are imported read-only with gofpdi and stamped under the
// content of each page, choosing template index mod count so that front and
// back artwork alternate. A template whose page size differs from the
// generated page size is rejected; it is never stretched to fit.
package overlay

import (
	"fmt"
	"math"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"github.com/cosmicflow/tagsheet/asset"
	"github.com/cosmicflow/tagsheet/grid"
)

// Tolerance is the largest size difference, in points, still treated as
// the same page size. It absorbs the rounding of mm-based page sizes.
const Tolerance = 0.5

// box is the page box templates are imported with.
const box = "/MediaBox"

// MismatchError reports a template whose page size differs from the
// generated page size.
type MismatchError struct {
	Index    int       // position in the template list
	Path     string    // template file
	Template grid.Size // template page size in mm
	Page     grid.Size // generated page size in mm
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("overlay: template %d (%s) is %s mm, pages are %s mm",
		e.Index, e.Path, round(e.Template), round(e.Page))
}

func round(s grid.Size) grid.Size {
	return grid.Size{W: math.Round(s.W*100) / 100, H: math.Round(s.H*100) / 100}
}

// Template is the first page of a background file, imported into one
// document.
type Template struct {
	Path string
	Size grid.Size // mm
	id   int
}

// Set is an ordered list of templates imported into one document. A Set
// belongs to the document it was loaded into.
type Set struct {
	imp       *gofpdi.Importer
	page      grid.Size
	templates []Template
}

// Load imports the first page of every file in paths into pdf. pdf must use
// millimetres as its unit. Files that cannot be read fail with
// *asset.LoadError; files of the wrong size fail with *MismatchError. Load
// adds no pages to pdf.
func Load(pdf *gofpdf.Fpdf, page grid.Size, paths ...string) (*Set, error) {
	return load(pdf, gofpdi.NewImporter(), page, paths)
}

// load shares imp with other imports into the same document; importers
// number their templates independently.
func load(pdf *gofpdf.Fpdf, imp *gofpdi.Importer, page grid.Size, paths []string) (*Set, error) {
	s := &Set{imp: imp, page: page}
	for i, path := range paths {
		// Read the file up front: gofpdi panics on missing or malformed
		// input instead of returning an error.
		if _, err := asset.ReadFile(asset.KindTemplate, path); err != nil {
			return nil, err
		}
		tpl, err := s.importFirst(pdf, path)
		if err != nil {
			return nil, err
		}
		if !sameSize(tpl.Size, page) {
			return nil, &MismatchError{Index: i, Path: path, Template: tpl.Size, Page: page}
		}
		s.templates = append(s.templates, tpl)
	}
	return s, nil
}

func (s *Set) importFirst(pdf *gofpdf.Fpdf, path string) (Template, error) {
	id, size, err := importPage(pdf, s.imp, path, 1)
	if err != nil {
		return Template{}, asset.NewLoadError(asset.KindTemplate, path, err)
	}
	return Template{Path: path, Size: size, id: id}, nil
}

// importPage imports page n of path and returns its template id and size
// in mm. Panics inside gofpdi come back as errors.
func importPage(pdf *gofpdf.Fpdf, imp *gofpdi.Importer, path string, n int) (id int, size grid.Size, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing page %d: %v", n, r)
		}
	}()
	id = imp.ImportPage(pdf, path, n, box)
	w, h := pageSize(imp, n)
	if w <= 0 || h <= 0 {
		return 0, grid.Size{}, fmt.Errorf("no %s on page %d", box, n)
	}
	return id, grid.Size{W: w / grid.PointsPerMM, H: h / grid.PointsPerMM}, nil
}

// pageSize returns the size in points of page n of the file most recently
// imported by imp.
func pageSize(imp *gofpdi.Importer, n int) (w, h float64) {
	if dims, ok := imp.GetPageSizes()[n]; ok {
		if mb, ok := dims[box]; ok {
			return mb["w"], mb["h"]
		}
	}
	return 0, 0
}

func sameSize(a, b grid.Size) bool {
	ap, bp := a.Points(), b.Points()
	return math.Abs(ap.W-bp.W) <= Tolerance && math.Abs(ap.H-bp.H) <= Tolerance
}

// Len returns the number of templates in s.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Templates returns the loaded templates in order.
func (s *Set) Templates() []Template {
	if s == nil {
		return nil
	}
	return append([]Template(nil), s.templates...)
}

// Pick returns the template for zero-based page index.
func (s *Set) Pick(index int) (Template, bool) {
	if s.Len() == 0 || index < 0 {
		return Template{}, false
	}
	return s.templates[index%len(s.templates)], true
}

// Stamp draws the template for page index across the current page of pdf.
// Call it right after adding the page so content lands on top. An empty
// set stamps nothing.
func (s *Set) Stamp(pdf *gofpdf.Fpdf, index int) {
	tpl, ok := s.Pick(index)
	if !ok {
		return
	}
	s.imp.UseImportedTemplate(pdf, tpl.id, 0, 0, s.page.W, s.page.H)
}

// Check loads paths into a scratch document, reporting the same errors as
// Load without touching any real document.
func Check(page grid.Size, paths ...string) error {
	_, err := Load(gofpdf.New("P", "mm", "A4", ""), page, paths...)
	return err
}
