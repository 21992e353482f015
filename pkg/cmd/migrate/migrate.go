package migrate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/virtualracing/league-standings-go/log"
	"github.com/virtualracing/league-standings-go/pkg/config"
	"github.com/virtualracing/league-standings-go/pkg/db/migrate"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "applies the database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateDatabase()
		},
	}
	return cmd
}

func migrateDatabase() error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Error("database not ready", log.ErrorField(err))
		return err
	}

	log.Info("Applying database migrations")
	if err := migrate.MigrateDb(config.DB); err != nil {
		log.Error("Migration failed", log.ErrorField(err))
		return err
	}
	log.Info("Database migrations applied")
	return nil
}
