package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/roadcast/app"
	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/pkg/export"
)

var (
	predictRoad   int
	predictSteps  int
	predictBase   int64
	predictFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast the speed of a road and store the job",
	RunE:  predict,
}

func init() {
	predictCmd.Flags().IntVarP(&predictRoad, "road", "r", 0, "road id")
	predictCmd.Flags().IntVarP(&predictSteps, "steps", "n", 6, "number of 10-minute steps")
	predictCmd.Flags().Int64Var(&predictBase, "base", 0, "base time in epoch ms (default: latest reading)")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", "json", "output format: json or csv")
	_ = predictCmd.MarkFlagRequired("road")
	rootCmd.AddCommand(predictCmd)
}

func predict(cmd *cobra.Command, _ []string) error {
	if predictFormat != "json" && predictFormat != "csv" {
		return fmt.Errorf("unsupported format %q", predictFormat)
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		req := forecast.Request{RoadID: predictRoad, HorizonSteps: predictSteps}
		if cmd.Flags().Changed("base") {
			req.BaseTime = &predictBase
		}
		job, err := svc.Forecast.Predict(ctx, req)
		if err != nil {
			return err
		}
		if predictFormat == "csv" {
			return export.WriteCSV(cmd.OutOrStdout(), job)
		}
		return export.WriteJSON(cmd.OutOrStdout(), job)
	})
}
