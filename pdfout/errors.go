package pdfout

import (
	"errors"
	"fmt"
)

// Sentinel errors for documents that cannot be rendered at all.
var (
	ErrNoPages    = errors.New("pdfout: document has no pages")
	ErrNoPageSize = errors.New("pdfout: document has no page size")
)

// PDFError reports a failure inside the PDF backend while performing Op.
type PDFError struct {
	Op  string // e.g. "AddUTF8Font", "page 3"
	Err error
}

func (e *PDFError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfout.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfout.%s: unknown error", e.Op)
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

func newPDFError(op string, err error) *PDFError {
	return &PDFError{Op: op, Err: err}
}
