// Package textfit measures strings against TrueType font metrics, shrinks
// titles until they fit a line and word-wraps subtitles.
//
// Fonts are collected into an immutable Registry before any measurement
// takes place. A Registry is safe for concurrent use by independent
// document generations.
package textfit

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/cosmicflow/tagsheet/asset"
)

// Names of the three weights every document family provides.
const (
	Regular = "regular"
	Medium  = "medium"
	Bold    = "bold"
)

// ErrUnknownFont is returned when a face is looked up before it was registered.
var ErrUnknownFont = errors.New("textfit: font not registered")

// Face is a parsed TrueType font together with its raw program bytes,
// which the PDF backend embeds.
type Face struct {
	name string
	data []byte
	font *opentype.Font
	upem float64
}

// ParseFace parses a TrueType or OpenType program registered under name.
func ParseFace(name string, ttf []byte) (*Face, error) {
	if name == "" {
		return nil, asset.NewLoadError(asset.KindFont, name, errors.New("empty font name"))
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, asset.NewLoadError(asset.KindFont, name, err)
	}
	upem := float64(f.UnitsPerEm())
	if upem <= 0 {
		return nil, asset.NewLoadError(asset.KindFont, name, fmt.Errorf("invalid units per em %v", upem))
	}
	return &Face{name: name, data: ttf, font: f, upem: upem}, nil
}

// LoadFace reads and parses a font file from disk.
func LoadFace(name, path string) (*Face, error) {
	data, err := asset.ReadFile(asset.KindFont, path)
	if err != nil {
		return nil, err
	}
	face, err := ParseFace(name, data)
	if err != nil {
		return nil, asset.NewLoadError(asset.KindFont, path, errors.Unwrap(err))
	}
	return face, nil
}

// Name returns the name the face was registered under.
func (f *Face) Name() string { return f.name }

// Data returns the font program. Callers must not modify it.
func (f *Face) Data() []byte { return f.data }

// Registry is an immutable set of named faces.
type Registry struct {
	faces map[string]*Face
	order []string
}

// NewRegistry builds a registry from faces. Names must be unique.
func NewRegistry(faces ...*Face) (*Registry, error) {
	r := &Registry{faces: make(map[string]*Face, len(faces))}
	for _, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("textfit: nil face")
		}
		if _, dup := r.faces[f.name]; dup {
			return nil, fmt.Errorf("textfit: font %q registered twice", f.name)
		}
		r.faces[f.name] = f
		r.order = append(r.order, f.name)
	}
	return r, nil
}

// LoadFamily loads the files named in files (registered name -> file name)
// relative to dir.
func LoadFamily(dir string, files map[string]string) (*Registry, error) {
	faces := make([]*Face, 0, len(files))
	for _, name := range []string{Regular, Medium, Bold} {
		file, ok := files[name]
		if !ok {
			return nil, asset.NewLoadError(asset.KindFont, name, errors.New("no file configured"))
		}
		face, err := LoadFace(name, asset.Resolve(dir, file))
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}
	for name, file := range files {
		if name == Regular || name == Medium || name == Bold {
			continue
		}
		face, err := LoadFace(name, asset.Resolve(dir, file))
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}
	return NewRegistry(faces...)
}

// GoFamily returns the Go font family as regular, medium and bold. It needs
// no files on disk, which makes it the fallback family and the one tests use.
func GoFamily() *Registry {
	r, err := NewRegistry(
		mustParse(Regular, goregular.TTF),
		mustParse(Medium, gomedium.TTF),
		mustParse(Bold, gobold.TTF),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func mustParse(name string, ttf []byte) *Face {
	f, err := ParseFace(name, ttf)
	if err != nil {
		panic(err)
	}
	return f
}

// Face returns the face registered under name.
func (r *Registry) Face(name string) (*Face, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	f, ok := r.faces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return f, nil
}

// Faces returns all faces in registration order.
func (r *Registry) Faces() []*Face {
	out := make([]*Face, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.faces[name])
	}
	return out
}

// Width measures text set in the named face. See Face.Width.
func (r *Registry) Width(text, name string, size float64) (float64, error) {
	f, err := r.Face(name)
	if err != nil {
		return 0, err
	}
	return f.Width(text, size), nil
}
