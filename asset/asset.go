// Package asset loads the read-only files a document depends on: font
// programs, background templates and vector logos.
//
// Every failure is reported as a *LoadError so callers can tell a missing
// asset apart from a layout or encoding problem before anything is drawn.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Kind names the role of an asset in error messages.
type Kind string

const (
	KindFont     Kind = "font"
	KindTemplate Kind = "template"
	KindLogo     Kind = "logo"
)

// ErrEmpty is wrapped by LoadError when an asset file exists but has no content.
var ErrEmpty = errors.New("asset: file is empty")

// LoadError reports a missing, unreadable or malformed asset.
type LoadError struct {
	Kind Kind   // role of the asset
	Path string // file path or logical name
	Err  error  // underlying error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: loading %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err as a LoadError for the given asset.
func NewLoadError(kind Kind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

// ReadFile reads an asset file in full.
func ReadFile(kind Kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(kind, path, err)
	}
	if len(data) == 0 {
		return nil, NewLoadError(kind, path, ErrEmpty)
	}
	return data, nil
}

// Resolve joins name onto dir unless name is already absolute or dir is empty.
func Resolve(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
