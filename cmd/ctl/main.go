// Command ctl runs operator tasks against the storefront database.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"glamup.com/app/internal/shared/dbx"
)

// opener connects to the database named by a DSN.
type opener func(dsn string) (*gorm.DB, error)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(dbx.OpenMySQL).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "ctl",
		Short:        "GlamUp operator commands",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "MySQL DSN (default: $DB_DSN)")

	connect := func() (*gorm.DB, error) {
		d := dsn
		if d == "" {
			d = os.Getenv("DB_DSN")
		}
		if d == "" {
			return nil, errors.New("no database: pass --dsn or set DB_DSN")
		}
		return open(d)
	}

	root.AddCommand(
		newMigrateCmd(connect),
		newSeedCatalogCmd(connect),
		newCreateAdminCmd(connect),
	)
	return root
}
