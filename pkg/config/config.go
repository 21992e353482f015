package config

// this holds the resolved configuration values from CLI
var (
	DB                string // connection string for the database
	LogLevel          string // sets the log level (zap log level values)
	SQLLogLevel       string // sets the log level for sql subsystem
	LogFormat         string // text vs json
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry
	ProfilingPort     int    // port for profiling
	WaitForServices   string // duration to wait for external services to be ready
)
