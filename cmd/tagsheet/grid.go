package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cosmicflow/tagsheet/grid"
)

func newGridCmd() *cobra.Command {
	var (
		cell, page  string
		margin, gap float64
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show how many cells of a size fit on a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := grid.ParseSize(cell)
			if err != nil {
				return err
			}
			p, err := grid.PageSize(page)
			if err != nil {
				return err
			}
			g := grid.ComputeWithGap(c, p, margin, gap)
			if g.Capacity() == 0 {
				return &grid.CapacityError{Cell: c, Page: p, Margin: margin}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "page\t%s mm\n", p)
			fmt.Fprintf(w, "cell\t%s mm\n", c)
			fmt.Fprintf(w, "columns\t%d\n", g.Columns)
			fmt.Fprintf(w, "rows\t%d\n", g.Rows)
			fmt.Fprintf(w, "capacity\t%d\n", g.Capacity())
			fmt.Fprintf(w, "origin\t%.2f, %.2f mm\n", g.X, g.Y)
			fmt.Fprintf(w, "extent\t%.2f x %.2f mm\n", g.Width, g.Height)
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&cell, "cell", "", "cell size as WxH in mm, e.g. 30x52")
	f.StringVar(&page, "page", "A4", "page size: A3, A4, A5, Letter, Legal or WxH in mm")
	f.Float64Var(&margin, "margin", 0, "minimum page margin in mm")
	f.Float64Var(&gap, "gap", 0, "space between cells in mm")
	_ = cmd.MarkFlagRequired("cell")
	return cmd
}
