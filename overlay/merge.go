package overlay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"github.com/cosmicflow/tagsheet/grid"
)

// Merge places every page of the PDF at content over the templates and
// writes the result to w. Page i gets template i mod len(templates).
func Merge(w io.Writer, content string, templates ...string) error {
	pdf, err := mergePDF(content, templates)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// MergeFiles is Merge writing to outputPath. The output file is only
// created once the merge has succeeded.
func MergeFiles(outputPath, content string, templates ...string) error {
	pdf, err := mergePDF(content, templates)
	if err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("overlay: creating %s: %w", outputPath, err)
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		os.Remove(outputPath)
		return fmt.Errorf("overlay: writing %s: %w", outputPath, err)
	}
	return f.Close()
}

func mergePDF(content string, templates []string) (*gofpdf.Fpdf, error) {
	if len(templates) == 0 {
		return nil, errors.New("overlay: no templates provided")
	}
	if _, err := os.Stat(content); err != nil {
		return nil, fmt.Errorf("overlay: reading %s: %w", content, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()

	first, page, err := importPage(pdf, imp, content, 1)
	if err != nil {
		return nil, fmt.Errorf("overlay: %s: %w", content, err)
	}
	count := len(imp.GetPageSizes())
	ids := []int{first}
	for n := 2; n <= count; n++ {
		id, size, err := importPage(pdf, imp, content, n)
		if err != nil {
			return nil, fmt.Errorf("overlay: %s: %w", content, err)
		}
		if !sameSize(size, page) {
			return nil, fmt.Errorf("overlay: %s: page %d is %s mm, page 1 is %s mm", content, n, round(size), round(page))
		}
		ids = append(ids, id)
	}

	set, err := load(pdf, imp, page, templates)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.W, Ht: page.H})
		set.Stamp(pdf, i)
		imp.UseImportedTemplate(pdf, id, 0, 0, page.W, page.H)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("overlay: merging %s: %w", content, pdf.Error())
	}
	return pdf, nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("overlay: reading %s: %v", path, r)
		}
	}()
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("overlay: reading %s: %w", path, err)
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	imp := gofpdi.NewImporter()
	imp.ImportPage(pdf, path, 1, box)
	return len(imp.GetPageSizes()), nil
}

// PageSize returns the size in mm of page n of the PDF at path.
func PageSize(path string, n int) (grid.Size, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	_, size, err := importPage(pdf, gofpdi.NewImporter(), path, n)
	if err != nil {
		return grid.Size{}, fmt.Errorf("overlay: %s: %w", path, err)
	}
	return size, nil
}
