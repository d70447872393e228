package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"iseesync/internal/models"
	"iseesync/internal/services/hierarchy"
)

func printTable(t *hierarchy.Table) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func outputTable(t *hierarchy.Table, outputPath string) error {
	if outputPath == "" {
		return printTable(t)
	}
	if err := t.SaveCSV(outputPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(t.Rows), outputPath)
	return nil
}

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Pull the asset hierarchy as a flat table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		output, _ := cmd.Flags().GetString("output")

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		svc := hierarchy.NewService(client)
		var assets []models.Asset
		if root != "" {
			assets, err = svc.PullSubtree(cmd.Context(), root)
		} else {
			assets, err = svc.Pull(cmd.Context())
		}
		if err != nil {
			return err
		}

		return outputTable(hierarchy.Flatten(assets), output)
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the wireless network status, one row per device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		status, err := client.GetNetworkStatus(cmd.Context())
		if err != nil {
			return err
		}

		rows := hierarchy.FlattenNetwork(status)
		return outputTable(hierarchy.NetworkTable(rows), output)
	},
}

var preselectionsCmd = &cobra.Command{
	Use:   "preselections",
	Short: "List the task templates available in the customer database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		var tach *bool
		if cmd.Flags().Changed("tach") {
			v, _ := cmd.Flags().GetBool("tach")
			tach = &v
		}

		preselections, err := client.GetPreselections(cmd.Context(), tach)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDNA\tTACH")
		for _, p := range preselections {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", p.ID, p.Name, p.DNA, p.Tach)
		}
		return w.Flush()
	},
}

func init() {
	hierarchyCmd.Flags().String("root", "", "limit to the subtree under this asset name")
	hierarchyCmd.Flags().StringP("output", "o", "", "write CSV to this path instead of stdout")
	networkCmd.Flags().StringP("output", "o", "", "write CSV to this path instead of stdout")
	preselectionsCmd.Flags().Bool("tach", false, "filter by tach flag")

	rootCmd.AddCommand(hierarchyCmd, networkCmd, preselectionsCmd)
}
