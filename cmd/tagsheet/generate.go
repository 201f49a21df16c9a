package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/cardtpl"
	"github.com/cosmicflow/tagsheet/catalog"
	"github.com/cosmicflow/tagsheet/product"
)

// source selects where items come from: a CSV export or the catalog
// database.
type source struct {
	fromDB  bool
	prefix  string
	inStock bool
	limit   int
}

func (s *source) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&s.fromDB, "from-db", false, "read products from the catalog database instead of a CSV file")
	f.StringVar(&s.prefix, "prefix", "", "with --from-db, only products whose SKU starts with this prefix")
	f.BoolVar(&s.inStock, "in-stock", false, "with --from-db, skip products with quantity 0")
	f.IntVar(&s.limit, "limit", 0, "with --from-db, read at most this many products")
}

// args validates positional arguments: one CSV path, or none with --from-db.
func (s *source) args(extra int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if s.fromDB {
			return cobra.ExactArgs(extra)(cmd, args)
		}
		return cobra.ExactArgs(extra+1)(cmd, args)
	}
}

func (s *source) items(ctx context.Context, a *app, csvPath string) ([]product.Item, error) {
	if s.fromDB {
		store, err := catalog.Open(ctx, a.cfg.Database.URL, a.cfg.Database.MaxOpenConns, a.log)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Items(ctx, catalog.Filter{Prefix: s.prefix, InStockOnly: s.inStock, Limit: s.limit})
	}
	return readCSV(csvPath)
}

// readCSV reads an inventory export; "-" reads standard input.
func readCSV(path string) ([]product.Item, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return product.ReadCSV(r)
}

func (a *app) outputPath(flag, name string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(a.cfg.Output.Dir, name)
}

func newGenerateCmd(a *app, kind tagsheet.Kind, short string) *cobra.Command {
	var (
		src    source
		output string
	)
	cmd := &cobra.Command{
		Use:   string(kind) + " [inventory.csv]",
		Short: short,
		Args:  src.args(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var csvPath string
			if len(args) > 0 {
				csvPath = args[0]
			}
			items, err := src.items(cmd.Context(), a, csvPath)
			if err != nil {
				return err
			}
			path := a.outputPath(output, string(kind)+".pdf")
			if err := a.gen.GenerateFile(path, kind, items); err != nil {
				return err
			}
			a.log.Info("document written", zap.String("kind", string(kind)), zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF (default: <output.dir>/"+string(kind)+".pdf)")
	return cmd
}

func newAllCmd(a *app) *cobra.Command {
	var (
		src         source
		parallelism int
	)
	cmd := &cobra.Command{
		Use:   "all [inventory.csv]",
		Short: "Print price tags and backing cards for the same items",
		Args:  src.args(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var csvPath string
			if len(args) > 0 {
				csvPath = args[0]
			}
			items, err := src.items(cmd.Context(), a, csvPath)
			if err != nil {
				return err
			}
			jobs := make([]tagsheet.Job, 0, len(tagsheet.Kinds))
			for _, kind := range tagsheet.Kinds {
				jobs = append(jobs, tagsheet.Job{
					Kind:  kind,
					Items: items,
					Path:  a.outputPath("", string(kind)+".pdf"),
				})
			}
			if err := a.gen.GenerateBatch(cmd.Context(), jobs, parallelism); err != nil {
				return err
			}
			for _, job := range jobs {
				fmt.Fprintln(cmd.OutOrStdout(), job.Path)
			}
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "documents rendered at once (default: GOMAXPROCS)")
	return cmd
}

func newLayoutCmd(a *app) *cobra.Command {
	var (
		src    source
		output string
	)
	cmd := &cobra.Command{
		Use:   "layout <layout.json> [inventory.csv]",
		Short: "Print items with a custom JSON cell layout",
		Args:  src.args(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := cardtpl.Load(args[0])
			if err != nil {
				return err
			}
			var csvPath string
			if len(args) > 1 {
				csvPath = args[1]
			}
			items, err := src.items(cmd.Context(), a, csvPath)
			if err != nil {
				return err
			}
			name := l.Name
			if name == "" {
				name = "layout"
			}
			return writeLayout(a, a.outputPath(output, name+".pdf"), l, items)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF (default: <output.dir>/<layout name>.pdf)")
	return cmd
}

// writeLayout renders into a temporary file next to path and renames it on
// success, so a failed document leaves nothing behind.
func writeLayout(a *app, path string, l *cardtpl.Layout, items []product.Item) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".tagsheet-*.pdf")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err = a.gen.GenerateLayout(f, l, items); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return err
	}
	a.log.Info("document written", zap.String("layout", l.Name), zap.String("path", path))
	return nil
}
