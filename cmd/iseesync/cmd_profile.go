package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"iseesync/internal/crypto"
	"iseesync/internal/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored connection profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Create or update a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		region, _ := cmd.Flags().GetString("region")
		customerDB, _ := cmd.Flags().GetString("customer-db")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if password == "" {
			password = os.Getenv("ISEE_API_PASSWORD")
		}
		if customerDB == "" || username == "" || password == "" {
			return fmt.Errorf("--customer-db, --username and --password (or ISEE_API_PASSWORD) are required")
		}

		encrypted, err := crypto.EncryptPassword(password)
		if err != nil {
			return fmt.Errorf("failed to encrypt password: %w", err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		var profile models.ConnectionProfile
		result := db.First(&profile, "name = ?", name)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		profile.Name = name
		profile.Region = region
		profile.CustomerDB = customerDB
		profile.Username = username
		profile.PasswordEnc = encrypted

		if result.Error == gorm.ErrRecordNotFound {
			err = db.Create(&profile).Error
		} else {
			err = db.Save(&profile).Error
		}
		if err != nil {
			return fmt.Errorf("failed to store profile: %w", err)
		}

		fmt.Printf("Profile %q saved (%s, db %s)\n", name, region, customerDB)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connection profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		var profiles []models.ConnectionProfile
		if err := db.Order("name").Find(&profiles).Error; err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tREGION\tCUSTOMER DB\tUSERNAME")
		for _, p := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Region, p.CustomerDB, p.Username)
		}
		return w.Flush()
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		result := db.Delete(&models.ConnectionProfile{}, "name = ?", args[0])
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("profile %q not found", args[0])
		}
		fmt.Printf("Profile %q deleted\n", args[0])
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("region", "eu", "server region (eu, us, preview)")
	profileSetCmd.Flags().String("customer-db", "", "customer database name")
	profileSetCmd.Flags().String("username", "", "API username")
	profileSetCmd.Flags().String("password", "", "API password (falls back to ISEE_API_PASSWORD)")

	profileCmd.AddCommand(profileSetCmd, profileListCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
