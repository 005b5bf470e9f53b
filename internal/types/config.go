package types

// RunMode is the deployment mode of the binary
type RunMode string

const (
	// ModeLocal runs the API server and the cron scheduler in one process
	ModeLocal RunMode = "local"
	// ModeAPI runs only the HTTP surface; no jobs fire on a schedule
	ModeAPI RunMode = "api"
	// ModeScheduler runs only the cron scheduler
	ModeScheduler RunMode = "scheduler"
)

// LogLevel is the logging verbosity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
