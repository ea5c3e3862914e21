package main

import (
	"fmt"

	"brewops/internal/model"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect()
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(model.All()...); err != nil {
			return err
		}
		fmt.Println("Migration complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed privileges, roles, the admin account and default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, s, err := services()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := s.Auth.Seed(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
		if err := s.Setting.SeedDefaults(ctx, cfg.DefaultKegDepositPrice); err != nil {
			return err
		}
		fmt.Println("Seed complete")
		return nil
	},
}

var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Read or change system settings",
}

var settingGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := services()
		if err != nil {
			return err
		}
		setting, err := s.Setting.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", setting.Key, setting.Value)
		return nil
	},
}

var settingSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := services()
		if err != nil {
			return err
		}
		setting, err := s.Setting.Set(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", setting.Key, setting.Value)
		return nil
	},
}

var (
	resetEmail    string
	resetPassword string
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a user's password and end their sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := services()
		if err != nil {
			return err
		}
		if err := s.Auth.SetPassword(cmd.Context(), resetEmail, resetPassword); err != nil {
			return err
		}
		fmt.Printf("Password for %s has been reset\n", resetEmail)
		return nil
	},
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "account email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "new password")
	resetPasswordCmd.MarkFlagRequired("email")
	resetPasswordCmd.MarkFlagRequired("password")

	settingCmd.AddCommand(settingGetCmd, settingSetCmd)
	rootCmd.AddCommand(migrateCmd, seedCmd, settingCmd, resetPasswordCmd)
}
