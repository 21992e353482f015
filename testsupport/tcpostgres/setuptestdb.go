//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/virtualracing/league-standings-go/pkg/db/migrate"
	database "github.com/virtualracing/league-standings-go/pkg/db/postgres"
)

// create a pg connection pool for the league testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("league-standings-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbUrl := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDb(dbUrl); err != nil {
		log.Fatal(err)
	}

	pool, err := database.InitWithURL(dbUrl)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

// connect to an already running database (env TESTDB_URL) instead of
// spinning up a container
func SetupExternalTestDb() *pgxpool.Pool {
	dbUrl := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbUrl); err != nil {
		log.Fatal(err)
	}
	pool, err := database.InitWithURL(dbUrl)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearResultTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_result")
}

func ClearAllTables(pool *pgxpool.Pool) {
	for _, table := range []string{
		"race_result", "roster_entry", "team", "driver",
		"race_event", "round", "bonus_rule", "points_system",
		"division", "season",
	} {
		pool.Exec(context.Background(), "delete from "+table)
	}
}
