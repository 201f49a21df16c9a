// Command tagsheet-mcp is an MCP (Model Context Protocol) server that exposes
// price tag and backing card generation to AI assistants.
//
// # Installation
//
//	go install github.com/cosmicflow/tagsheet/cmd/tagsheet-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "tagsheet": {
//	      "command": "tagsheet-mcp"
//	    }
//	  }
//	}
//
// Settings come from tagsheet.toml in the working directory and TAGSHEET_
// environment variables, as for the tagsheet command. Logs go to stderr;
// stdout carries JSON-RPC traffic only.
//
// # Available Tools
//
//   - generate_price_tags: Price tag sheet as base64 or file
//   - generate_backing_cards: Backing card sheet over the background templates
//   - generate_layout: Sheet from a custom JSON cell layout
//   - plan_sheets: Placement of items per page without rendering
//   - grid_info: Columns, rows and origin of a cell grid
//
// # Available Resources
//
//   - layout://price-tags, layout://backing-cards : Built-in layouts as JSON
//   - layout://page-sizes : Named page sizes
//   - layout://fonts : Registered font faces
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/internal/config"
	"github.com/cosmicflow/tagsheet/internal/logger"
	"github.com/cosmicflow/tagsheet/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tagsheet-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gen, err := tagsheet.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	server := mcp.NewServer(log.Named("mcp"))
	mcp.RegisterTools(server, gen)
	mcp.RegisterResources(server, gen)

	log.Info("serving on stdio", zap.String("host", cfg.Site.Host))
	return server.Run()
}
