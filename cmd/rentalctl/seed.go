package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/seed"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, towers, amenities and flats",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			db, err := e.connect()
			if err != nil {
				return err
			}
			c := e.catalog(db)

			sum, err := seed.NewSeeder(c.auth, c.towers, c.flats, c.amenities, e.log).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d users, %d towers, %d amenities, %d flats.\n",
				sum.Users, sum.Towers, sum.Amenities, sum.Flats)
			return nil
		},
	}
}
