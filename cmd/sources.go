package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/roadcast/app"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the CSV files of the data directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			list, err := svc.Scanner.Sources(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tMONTH\tROADS\tDAYS")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.Filename, s.Month, s.RoadCount, s.DayCount)
			}
			return w.Flush()
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Copy a CSV file into the data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return withService(func(ctx context.Context, svc *app.Service) error {
			res, err := svc.Importer.Import(ctx, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d roads, %d days, %d rows\n",
				res.Filename, res.RoadCount, res.DayCount, res.TotalRows)
			return nil
		})
	},
}

func init() {
	sourcesCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sourcesCmd)
}
