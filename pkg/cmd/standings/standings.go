package standings

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // profiling is opt-in via flag
	"os"
	"time"

	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/virtualracing/league-standings-go/log"
	"github.com/virtualracing/league-standings-go/pkg/config"
	"github.com/virtualracing/league-standings-go/pkg/db/postgres"
	"github.com/virtualracing/league-standings-go/pkg/processing"
	"github.com/virtualracing/league-standings-go/pkg/service"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

var (
	seasonID   int
	divisionID int
	lenient    bool
)

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "compute and display championship standings",
	}
	cmd.PersistentFlags().IntVar(&seasonID,
		"season",
		0,
		"id of the season to process")
	cmd.PersistentFlags().BoolVar(&lenient,
		"lenient-results",
		false,
		"treat missing result data as zero scores instead of aborting")
	cmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.PersistentFlags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.PersistentFlags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	//nolint:errcheck // flag is defined above
	cmd.MarkPersistentFlagRequired("season")

	cmd.AddCommand(newDriversCmd())
	cmd.AddCommand(newTeamsCmd())
	cmd.AddCommand(newRecomputeCmd())
	return cmd
}

func newDriversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "shows the driver standings of a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *service.StandingsService) error {
				rows, err := svc.Fetch(ctx, seasonID, divisionID)
				if err != nil {
					return err
				}
				renderDrivers(os.Stdout, rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&divisionID,
		"division",
		0,
		"restrict output to one division (0 = all)")
	return cmd
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "shows the team standings of a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *service.StandingsService) error {
				rows, err := svc.FetchTeams(ctx, seasonID)
				if err != nil {
					return err
				}
				renderTeams(os.Stdout, rows)
				return nil
			})
		},
	}
}

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "forces a full recomputation of the season standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *service.StandingsService) error {
				return svc.Recompute(ctx, seasonID)
			})
		},
	}
}

func withService(work func(ctx context.Context, svc *service.StandingsService) error) error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if err = utils.WaitForTCP(utils.ExtractFromDBURL(config.DB), timeout); err != nil {
		log.Error("database not ready", log.ErrorField(err))
		return err
	}

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // localhost only
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	pgTraceOption := postgres.WithTracer(sqlLogger)
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		if telemetry, tErr := config.SetupTelemetry(context.Background()); tErr == nil {
			defer telemetry.Shutdown()
			pgTraceOption = postgres.WithOtlpTracer()
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(tErr))
		}
		if rErr := otlpruntime.Start(
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second)); rErr != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(rErr))
		}
	}

	pool, err := postgres.InitWithURL(config.DB, pgTraceOption)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewStandingsService(pool,
		service.WithProcessor(newProcessor()),
		service.WithLogger(logger.Named("standings")))
	defer svc.Close()
	return work(context.Background(), svc)
}

func newProcessor() *processing.Processor {
	opts := []processing.ProcessorOption{}
	if lenient {
		opts = append(opts, processing.WithLenientResults())
	}
	return processing.NewProcessor(opts...)
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, parseLogLevel(config.LogLevel, log.InfoLevel))
		sqlLogger = log.New(os.Stderr, parseLogLevel(config.SQLLogLevel, log.InfoLevel))
	default:
		logger = log.DevLogger(os.Stderr, parseLogLevel(config.LogLevel, log.InfoLevel))
		sqlLogger = log.DevLogger(os.Stderr, parseLogLevel(config.SQLLogLevel, log.InfoLevel))
	}
	return logger, sqlLogger
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
