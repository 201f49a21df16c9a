package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/grid"
)

// RegisterResources adds the layout resources of gen to the server.
// Resources use the layout:// scheme.
func RegisterResources(s *Server, gen *tagsheet.Generator) {
	for _, kind := range tagsheet.Kinds {
		s.AddResource(Resource{
			URI:         "layout://" + string(kind),
			Name:        "Layout " + string(kind),
			Description: fmt.Sprintf("The cell layout used for %s, in the JSON format accepted by generate_layout.", strings.ReplaceAll(string(kind), "-", " ")),
			MIMEType:    "application/json",
			Handler: func(uri string) ([]ResourceContent, error) {
				l, err := gen.Layout(kind)
				if err != nil {
					return nil, err
				}
				return jsonContent(uri, l)
			},
		})
	}

	s.AddResource(Resource{
		URI:         "layout://page-sizes",
		Name:        "Page Sizes",
		Description: "Named page sizes in millimetres, portrait orientation.",
		MIMEType:    "application/json",
		Handler:     handlePageSizes,
	})

	s.AddResource(Resource{
		URI:         "layout://fonts",
		Name:        "Fonts",
		Description: "Font faces registered for layout elements.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			var names []string
			for _, f := range gen.Fonts().Faces() {
				names = append(names, f.Name())
			}
			return jsonContent(uri, map[string]interface{}{"fonts": names})
		},
	})
}

func handlePageSizes(uri string) ([]ResourceContent, error) {
	sizes := map[string]grid.Size{
		"A3":     grid.A3,
		"A4":     grid.A4,
		"A5":     grid.A5,
		"Letter": grid.Letter,
		"Legal":  grid.Legal,
	}
	out := make(map[string]map[string]float64, len(sizes))
	for name, s := range sizes {
		out[name] = map[string]float64{"width": s.W, "height": s.H}
	}
	return jsonContent(uri, out)
}

func jsonContent(uri string, v interface{}) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
