package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kilianp07/roadcast/app"
	"github.com/kilianp07/roadcast/core/dashboard"
)

var dashboardTopN int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the congestion summary of every known road",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			ids, err := svc.Cache.AllKnownRoadIDs(ctx)
			if err != nil {
				return err
			}
			avgs, err := dashboard.CacheAverages(ctx, svc.Cache, svc.Directory, ids)
			if err != nil {
				return err
			}
			sum := dashboard.Aggregate(avgs, cfg.Prediction.Thresholds(), dashboardTopN)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		})
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardTopN, "top", dashboard.DefaultTopN, "number of most congested roads")
	rootCmd.AddCommand(dashboardCmd)
}
