package tagsheet

import (
	"errors"

	"github.com/cosmicflow/tagsheet/asset"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/overlay"
	"github.com/cosmicflow/tagsheet/pdfout"
	"github.com/cosmicflow/tagsheet/qrsvg"
)

// Sentinel errors for requests that cannot produce a document.
var (
	ErrNoItems     = errors.New("tagsheet: no items to print")
	ErrUnknownKind = errors.New("tagsheet: unknown document kind")
)

// The error taxonomy of document generation. Match them with errors.As;
// each is fatal for the document it was raised for.
type (
	// EncodingError reports content that does not fit in a QR symbol at the
	// requested error-correction level.
	EncodingError = qrsvg.EncodingError

	// TemplateMismatchError reports a background template whose page size
	// differs from the generated page size.
	TemplateMismatchError = overlay.MismatchError

	// LayoutCapacityError reports a cell that does not fit on the page even
	// once.
	LayoutCapacityError = grid.CapacityError

	// AssetLoadError reports a font, template or logo that could not be
	// loaded.
	AssetLoadError = asset.LoadError

	// PDFError reports a failure inside the PDF backend.
	PDFError = pdfout.PDFError
)
