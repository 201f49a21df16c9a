package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/cardtpl"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/product"
)

var errNoItemsArg = errors.New("one of 'items' or 'csv' is required")

// RegisterTools adds the sheet generation tools backed by gen to the server.
func RegisterTools(s *Server, gen *tagsheet.Generator) {
	s.AddTool(generateTool(gen, tagsheet.KindPriceTags, "generate_price_tags",
		"Generate a double-sided PDF sheet of 30×52 mm hanging price tags. The front shows the title and subtitle, the back a QR code linking to the product page and the price. Returns the PDF as base64 unless outputPath is given."))
	s.AddTool(generateTool(gen, tagsheet.KindBackingCards, "generate_backing_cards",
		"Generate a double-sided PDF sheet of 53×85 mm backing cards printed over the configured background templates. Returns the PDF as base64 unless outputPath is given."))
	s.AddTool(generateLayoutTool(gen))
	s.AddTool(planSheetsTool(gen))
	s.AddTool(gridInfoTool())
}

var itemsSchema = map[string]interface{}{
	"type":        "array",
	"description": "Products to print. Each item occupies 'quantity' cells (default 1).",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"identifier": map[string]interface{}{"type": "string", "description": "Product SKU, used in the QR URL"},
			"title":      map[string]interface{}{"type": "string"},
			"subtitle":   map[string]interface{}{"type": "string"},
			"price":      map[string]interface{}{"type": "integer", "description": "Price in whole currency units"},
			"quantity":   map[string]interface{}{"type": "integer", "minimum": 0},
		},
		"required": []string{"identifier"},
	},
}

var csvSchema = map[string]interface{}{
	"type":        "string",
	"description": "Inventory CSV export (header row; columns sku, -, subtitle, title, price, quantity). Used when 'items' is absent.",
}

var outputPathSchema = map[string]interface{}{
	"type":        "string",
	"description": "Optional file path to save the PDF. If omitted, returns base64.",
}

func generateTool(gen *tagsheet.Generator, kind tagsheet.Kind, name, desc string) Tool {
	return Tool{
		Name:        name,
		Description: desc,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"items":      itemsSchema,
				"csv":        csvSchema,
				"outputPath": outputPathSchema,
			},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			items, err := itemsArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			if path := stringArg(args, "outputPath"); path != "" {
				if err := gen.GenerateFile(path, kind, items); err != nil {
					return ToolResult{}, err
				}
				return savedResult(path)
			}
			var buf bytes.Buffer
			if err := gen.Generate(&buf, kind, items); err != nil {
				return ToolResult{}, err
			}
			return pdfResult(buf.Bytes()), nil
		},
	}
}

func generateLayoutTool(gen *tagsheet.Generator) Tool {
	return Tool{
		Name:        "generate_layout",
		Description: "Generate a double-sided PDF sheet from a custom JSON cell layout (cell size, margin, gap, guides and elements: title, subtitle, text, price, qr, caption, circle, logo). The layout://price-tag resource shows the format.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout": map[string]interface{}{
					"type":        "object",
					"description": "Cell layout in the format of the layout:// resources",
				},
				"items":      itemsSchema,
				"csv":        csvSchema,
				"outputPath": outputPathSchema,
			},
			"required": []string{"layout"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			raw, ok := args["layout"]
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'layout' argument")
			}
			data, err := json.Marshal(raw)
			if err != nil {
				return ToolResult{}, fmt.Errorf("encoding layout: %w", err)
			}
			l, err := cardtpl.Parse(data)
			if err != nil {
				return ToolResult{}, err
			}
			items, err := itemsArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			var buf bytes.Buffer
			if err := gen.GenerateLayout(&buf, l, items); err != nil {
				return ToolResult{}, err
			}
			if path := stringArg(args, "outputPath"); path != "" {
				if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
					return ToolResult{}, fmt.Errorf("writing file: %w", err)
				}
				return savedResult(path)
			}
			return pdfResult(buf.Bytes()), nil
		},
	}
}

func planSheetsTool(gen *tagsheet.Generator) Tool {
	return Tool{
		Name:        "plan_sheets",
		Description: "Show how items would be placed without rendering a PDF: sheet count and, per page, which item sits in which row and column. Back pages are mirrored.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type": "string",
					"enum": []string{string(tagsheet.KindPriceTags), string(tagsheet.KindBackingCards)},
				},
				"items": itemsSchema,
				"csv":   csvSchema,
			},
			"required": []string{"kind"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			kind, err := tagsheet.ParseKind(stringArg(args, "kind"))
			if err != nil {
				return ToolResult{}, err
			}
			items, err := itemsArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			pages, err := gen.Compose(kind, items)
			if err != nil {
				return ToolResult{}, err
			}

			type cellInfo struct {
				Row        int    `json:"row"`
				Col        int    `json:"col"`
				Identifier string `json:"identifier"`
			}
			type pageInfo struct {
				Sheet int        `json:"sheet"`
				Side  string     `json:"side"`
				Cells []cellInfo `json:"cells"`
			}
			plan := struct {
				Sheets  int        `json:"sheets"`
				Columns int        `json:"columns"`
				Rows    int        `json:"rows"`
				Pages   []pageInfo `json:"pages"`
			}{Sheets: len(pages) / 2}
			for _, p := range pages {
				plan.Columns, plan.Rows = p.Grid.Columns, p.Grid.Rows
				pi := pageInfo{Sheet: p.Sheet, Side: p.Side.String()}
				for _, c := range p.Cells {
					pi.Cells = append(pi.Cells, cellInfo{Row: c.Row, Col: c.Col, Identifier: c.Item.Identifier})
				}
				plan.Pages = append(plan.Pages, pi)
			}
			return jsonResult(plan)
		},
	}
}

func gridInfoTool() Tool {
	return Tool{
		Name:        "grid_info",
		Description: "Compute how many cells of a given size fit on a page: columns, rows, capacity and the top-left corner of the centred grid, all in millimetres.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"cell": map[string]interface{}{
					"type":        "string",
					"description": "Cell size as WxH in mm, e.g. 30x52",
				},
				"page": map[string]interface{}{
					"type":        "string",
					"description": "Page size: A3, A4, A5, Letter, Legal or WxH in mm (default: A4)",
				},
				"margin": map[string]interface{}{"type": "number", "description": "Minimum page margin in mm"},
				"gap":    map[string]interface{}{"type": "number", "description": "Space between cells in mm"},
			},
			"required": []string{"cell"},
		},
		Handler: handleGridInfo,
	}
}

func handleGridInfo(args map[string]interface{}) (ToolResult, error) {
	cell, err := grid.ParseSize(stringArg(args, "cell"))
	if err != nil {
		return ToolResult{}, err
	}
	page, err := grid.PageSize(stringArg(args, "page"))
	if err != nil {
		return ToolResult{}, err
	}
	margin := numberArg(args, "margin")
	gap := numberArg(args, "gap")

	p := grid.ComputeWithGap(cell, page, margin, gap)
	if p.Capacity() == 0 {
		return ToolResult{}, &grid.CapacityError{Cell: cell, Page: page, Margin: margin}
	}
	return jsonResult(map[string]interface{}{
		"cell":     cell.String(),
		"page":     page.String(),
		"columns":  p.Columns,
		"rows":     p.Rows,
		"capacity": p.Capacity(),
		"x":        p.X,
		"y":        p.Y,
		"width":    p.Width,
		"height":   p.Height,
	})
}

// itemArg mirrors product.Item with a quantity that defaults to one.
type itemArg struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Price      int    `json:"price"`
	Quantity   *int   `json:"quantity"`
}

func itemsArg(args map[string]interface{}) ([]product.Item, error) {
	if raw, ok := args["items"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encoding items: %w", err)
		}
		var in []itemArg
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("decoding items: %w", err)
		}
		items := make([]product.Item, 0, len(in))
		for _, a := range in {
			qty := 1
			if a.Quantity != nil {
				qty = *a.Quantity
			}
			it, err := product.New(a.Identifier, a.Title, a.Subtitle, a.Price, qty)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return items, nil
	}
	if csv := stringArg(args, "csv"); csv != "" {
		return product.ReadCSV(strings.NewReader(csv))
	}
	return nil, errNoItemsArg
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// numberArg reads a JSON number, which decodes to float64.
func numberArg(args map[string]interface{}, key string) float64 {
	f, _ := args[key].(float64)
	return f
}

func pdfResult(pdf []byte) ToolResult {
	encoded := base64.StdEncoding.EncodeToString(pdf)
	return textResult(fmt.Sprintf("PDF created successfully (%d bytes). Base64 data:\n%s", len(pdf), encoded))
}

func savedResult(path string) (ToolResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ToolResult{}, fmt.Errorf("checking output: %w", err)
	}
	return textResult(fmt.Sprintf("PDF created successfully: %s (%d bytes)", path, info.Size())), nil
}

func jsonResult(v interface{}) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", MIMEType: "application/json", Text: string(data)}},
	}, nil
}
