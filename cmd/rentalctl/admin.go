package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			db, err := e.connect()
			if err != nil {
				return err
			}

			admin, err := e.catalog(db).auth.CreateAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return fmt.Errorf("create admin failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with ID %s\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "admin email address")
	cmd.Flags().String("password", "", "admin password")
	cmd.Flags().String("name", "Administrator", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
