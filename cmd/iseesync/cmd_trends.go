package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iseesync/internal/api"
	"iseesync/internal/services/hierarchy"
)

var trendsCmd = &cobra.Command{
	Use:   "trends ASSET_ID",
	Short: "Fetch trend results for one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID := args[0]
		latest, _ := cmd.Flags().GetBool("latest")
		output, _ := cmd.Flags().GetString("output")
		days, _ := cmd.Flags().GetInt("days")

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		var trends []api.TrendResult
		if latest {
			trends, err = client.GetLatestResults(cmd.Context(), assetID)
		} else {
			end := time.Now().UTC()
			start := end.AddDate(0, 0, -days)
			trends, err = client.GetTrends(cmd.Context(), assetID, start, end)
		}
		if err != nil {
			return err
		}
		if len(trends) == 0 {
			fmt.Println("No results.")
			return nil
		}

		return outputTable(hierarchy.FlattenTrends(trends), output)
	},
}

func init() {
	trendsCmd.Flags().Bool("latest", false, "fetch only the latest results")
	trendsCmd.Flags().Int("days", 30, "how many days back to fetch")
	trendsCmd.Flags().StringP("output", "o", "", "write CSV to this path instead of stdout")

	rootCmd.AddCommand(trendsCmd)
}
