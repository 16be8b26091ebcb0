package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rentalctl",
		Short:        "Operator tool for the rental service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		createAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
