// iseesync is a command line toolkit for the iSee industrial monitoring
// API: pulling and flattening the asset hierarchy, reconciling staged asset
// files against the server, and bulk provisioning of measurement points.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"iseesync/internal/api"
	"iseesync/internal/config"
	"iseesync/internal/crypto"
	"iseesync/internal/database"
	"iseesync/internal/logging"
	"iseesync/internal/models"
)

var (
	cfgFile     string
	verbose     bool
	profileName string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "iseesync",
	Short: "iSee asset hierarchy and provisioning toolkit",
	Long: `iseesync talks to the iSee condition monitoring API.

It pulls the asset hierarchy into flat tables, reconciles locally staged
asset trees against the server, replaces unlinked measurement points with
fully configured ones, and runs these passes on cron schedules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			os.Setenv(config.ConfigPathEnvVar, cfgFile)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

		if err := crypto.InitEncryption(); err != nil {
			return fmt.Errorf("failed to initialize encryption: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default iseesync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "stored connection profile to use")
}

// openDB lazily opens the local database. Commands that only read the API
// with config credentials never touch it.
func openDB() (*gorm.DB, error) {
	if database.GetDB() != nil {
		return database.GetDB(), nil
	}
	return database.Init(cfg.Database.URL)
}

// newClient builds an authenticated client, either from the --profile
// stored in the local database or from the config file credentials.
func newClient(ctx context.Context) (*api.Client, error) {
	var region config.Region
	var username, password, customerDB string

	if profileName != "" {
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		var profile models.ConnectionProfile
		if err := db.First(&profile, "name = ?", profileName).Error; err != nil {
			return nil, fmt.Errorf("profile %q not found: %w", profileName, err)
		}
		password, err = crypto.DecryptPassword(profile.PasswordEnc)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt profile password: %w", err)
		}
		region = config.Region(profile.Region)
		username = profile.Username
		customerDB = profile.CustomerDB
	} else {
		if cfg.API.Username == "" || cfg.API.Password == "" || cfg.API.CustomerDB == "" {
			return nil, fmt.Errorf("no --profile given and api.username, api.password or api.customer_db missing from config")
		}
		region = cfg.ServerRegion()
		username = cfg.API.Username
		password = cfg.API.Password
		customerDB = cfg.API.CustomerDB
	}

	client := api.NewClient(region.BaseURL(), username, password)
	client.SetPageSize(cfg.API.PageSize)
	client.SetPageWorkers(cfg.API.Workers)

	if _, err := client.Login(ctx, customerDB); err != nil {
		return nil, err
	}
	logging.Debug().Str("db", customerDB).Str("region", string(region)).Msg("logged in")
	return client, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
