package cmd

import (
	"fmt"
	"log"

	"github.com/solenergy/solenergy.com/internal/config"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Config.Store.Backend != config.StoreBackendPostgres {
			return fmt.Errorf(
				"migrate needs the postgres backend, have %q",
				config.Config.Store.Backend,
			)
		}
		db, err := config.Config.Db.Connect()
		if err != nil {
			return fmt.Errorf("could not connect to db: %w", err)
		}
		store := model.NewStore(db)
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.Println("schema applied")
		return nil
	},
}
