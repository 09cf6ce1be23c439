package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	database "tamilvalam_backend/internals/databases"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version]",
	Short:     "Run database migrations",
	Long:      "Runs the embedded goose migrations on postgres. Other drivers are auto-migrated and only accept up.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status", "version"},
	RunE: func(c *cobra.Command, args []string) error {
		rt := fromContext(c)
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		if strings.EqualFold(rt.cfg.DB.Driver, "postgres") {
			return database.RunGoose(rt.cfg.DB, command, rt.log)
		}
		if command != "up" {
			return fmt.Errorf("migrate %s is only supported on postgres", command)
		}
		db, err := database.Connect(rt.cfg.DB, rt.log)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.Migrate(db, rt.cfg.DB, rt.log)
	},
}
