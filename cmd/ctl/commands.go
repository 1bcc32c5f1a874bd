package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/orders"
)

// allModels lists every table the web server expects.
func allModels() []any {
	var out []any
	out = append(out, auth.Models()...)
	out = append(out, catalog.Models()...)
	out = append(out, orders.Models()...)
	return out
}

func newMigrateCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			models := allModels()
			if err := db.WithContext(cmd.Context()).AutoMigrate(models...); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(models))
			return nil
		},
	}
}

func newSeedCatalogCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog",
		Short: "Load the bundled catalog (categories and products)",
		Long: `Loads the catalog that ships with the binary into the database.

Existing rows with the same id are overwritten, so running it twice is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			cats, products, err := catalog.Seed()
			if err != nil {
				return err
			}
			if err := catalog.NewGormRepo(db).Import(cmd.Context(), cats, products); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d products\n", len(cats), len(products))
			return nil
		},
	}
}

func newCreateAdminCmd(connect func() (*gorm.DB, error)) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			// No tokens are issued here, so the issuer is never used.
			svc := auth.NewService(auth.NewRepo(db), nil, 24*time.Hour)
			u, err := svc.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s (%s) ready\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default: Admin)")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
