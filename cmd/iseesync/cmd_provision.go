package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"iseesync/internal/services/provision"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Replace unlinked measurement points with configured ones",
	Long: `provision matches each staged measurement point against the server by
name and ancestor names, then creates a replacement linked to the
transmitter under the same parent, assigns it the monitoring task matching
its signal type and speed, and deletes the original asset.

Failures are recorded per measurement point and never abort the batch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		staging, _ := cmd.Flags().GetString("staging")
		root, _ := cmd.Flags().GetString("root")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		svc := provision.NewService(client, db)
		run, err := svc.ReplaceRelink(cmd.Context(), provision.Options{
			ProfileName: profileName,
			RootName:    root,
			StagingFile: staging,
			DryRun:      dryRun,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Run %s: %d done, %d skipped, %d failed\n", run.ID, run.Done, run.Skipped, run.Failed)

		records, err := svc.Records(run.ID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATUS\tOLD ID\tNEW ID\tTASK\tERROR")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.Status, r.OldAssetID, r.NewAssetID, r.TaskID, r.Error)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if run.Failed > 0 {
			return fmt.Errorf("%d measurement points failed, see records above", run.Failed)
		}
		return nil
	},
}

var pushBatchCmd = &cobra.Command{
	Use:   "push-batch",
	Short: "Create a whole staged asset tree in one batch request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		staging, _ := cmd.Flags().GetString("staging")

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		svc := provision.NewService(client, nil)
		response, err := svc.PushStagedBatch(cmd.Context(), staging)
		if err != nil {
			return err
		}
		fmt.Println(response)
		return nil
	},
}

var pushTreeCmd = &cobra.Command{
	Use:   "push-tree",
	Short: "Scaffold one machine with transmitter, MP and channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := provision.TreeOptions{}
		opts.ParentName, _ = cmd.Flags().GetString("parent")
		opts.MachineName, _ = cmd.Flags().GetString("machine")
		opts.TransmitterName, _ = cmd.Flags().GetString("transmitter")
		opts.TransmitterMAC, _ = cmd.Flags().GetString("mac")
		opts.SerialNumber, _ = cmd.Flags().GetString("serial")
		opts.ImagePath, _ = cmd.Flags().GetString("image")

		if opts.ParentName == "" || opts.MachineName == "" {
			return fmt.Errorf("--parent and --machine are required")
		}
		if opts.TransmitterName == "" {
			opts.TransmitterName = opts.MachineName + " - TX"
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		svc := provision.NewService(client, nil)
		machine, err := svc.PushTree(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Printf("Machine %q created with id %s\n", machine.Name, machine.ID)
		return nil
	},
}

func init() {
	provisionCmd.Flags().String("staging", "", "staged records JSON file")
	provisionCmd.Flags().String("root", "", "limit matching to the subtree under this asset name")
	provisionCmd.Flags().Bool("dry-run", false, "resolve and report without touching the server")
	provisionCmd.MarkFlagRequired("staging")

	pushBatchCmd.Flags().String("staging", "", "staged records JSON file")
	pushBatchCmd.MarkFlagRequired("staging")

	pushTreeCmd.Flags().String("parent", "", "name of the parent asset")
	pushTreeCmd.Flags().String("machine", "", "name for the new machine")
	pushTreeCmd.Flags().String("transmitter", "", "name for the new transmitter")
	pushTreeCmd.Flags().String("mac", "", "transmitter MAC address")
	pushTreeCmd.Flags().String("serial", "", "transmitter serial number")
	pushTreeCmd.Flags().String("image", "", "image file to attach to the machine")

	rootCmd.AddCommand(provisionCmd, pushBatchCmd, pushTreeCmd)
}
