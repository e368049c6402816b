package cmd

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/roadcast/app"
	"github.com/kilianp07/roadcast/app/plugins"
	"github.com/kilianp07/roadcast/core/roads"
)

var roadsCmd = &cobra.Command{
	Use:   "roads",
	Short: "List known roads with their display names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			ids, err := svc.Cache.AllKnownRoadIDs(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				svc.Directory.EnsureRoad(id)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREGION")
			for _, seg := range svc.Directory.List() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", seg.RoadID, roads.DisplayName(seg.RoadID, seg.Name), seg.Region)
			}
			return w.Flush()
		})
	},
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the module types accepted in the configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		avail := plugins.Available()
		kinds := make([]string, 0, len(avail))
		for k := range avail {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, avail[plugins.Kind(k)])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roadsCmd, pluginsCmd)
}
