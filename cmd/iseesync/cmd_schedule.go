package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"iseesync/internal/logging"
	"iseesync/internal/services/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring hierarchy snapshot and provisioning jobs",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		jobs, err := scheduler.NewService(db).ListJobs()
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No scheduled jobs.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tCRON\tENABLED\tLAST RUN\tNEXT RUN")
		for _, j := range jobs {
			lastRun, nextRun := "-", "-"
			if j.LastRunAt != nil {
				lastRun = *j.LastRunAt
			}
			if j.NextRun != nil {
				nextRun = *j.NextRun
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n", j.ID, j.Name, j.JobType, j.Cron, j.Enabled, lastRun, nextRun)
		}
		return w.Flush()
	},
}

var scheduleUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or update a scheduled job by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := scheduler.UpsertJobRequest{}
		req.Name, _ = cmd.Flags().GetString("name")
		req.JobType, _ = cmd.Flags().GetString("type")
		req.Cron, _ = cmd.Flags().GetString("cron")
		req.Timezone, _ = cmd.Flags().GetString("timezone")
		req.Enabled, _ = cmd.Flags().GetBool("enabled")
		payload, _ := cmd.Flags().GetString("payload")
		req.Payload = payload

		db, err := openDB()
		if err != nil {
			return err
		}
		jobID, err := scheduler.NewService(db).UpsertJob(req)
		if err != nil {
			return err
		}
		fmt.Printf("Job %q saved with id %s\n", req.Name, jobID)
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete JOB_ID",
	Short: "Delete a scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := scheduler.NewService(db).DeleteJob(args[0]); err != nil {
			return err
		}
		fmt.Printf("Job %s deleted\n", args[0])
		return nil
	},
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run JOB_ID",
	Short: "Run a scheduled job immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return scheduler.NewService(db).RunJobNow(args[0])
	},
}

var scheduleServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		svc := scheduler.NewService(db)
		if err := svc.Start(); err != nil {
			return err
		}
		logging.Info().Msg("Scheduler running, press Ctrl+C to stop")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logging.Info().Msg("Shutting down scheduler")
		svc.Stop()
		return nil
	},
}

func init() {
	scheduleUpsertCmd.Flags().String("name", "", "unique job name")
	scheduleUpsertCmd.Flags().String("type", "", "job type: hierarchy_snapshot or provision")
	scheduleUpsertCmd.Flags().String("cron", "", "cron expression (5 or 6 fields)")
	scheduleUpsertCmd.Flags().String("timezone", "UTC", "IANA timezone for the schedule")
	scheduleUpsertCmd.Flags().Bool("enabled", true, "whether the job starts enabled")
	scheduleUpsertCmd.Flags().String("payload", "", "job payload as JSON")
	scheduleUpsertCmd.MarkFlagRequired("name")
	scheduleUpsertCmd.MarkFlagRequired("type")
	scheduleUpsertCmd.MarkFlagRequired("cron")
	scheduleUpsertCmd.MarkFlagRequired("payload")

	scheduleCmd.AddCommand(scheduleListCmd, scheduleUpsertCmd, scheduleDeleteCmd, scheduleRunCmd, scheduleServeCmd)
	rootCmd.AddCommand(scheduleCmd)
}
