package constants

const (
	AppName            = "kindling"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/kindling/kindling.db"
	Version            = "v0.3.0"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// ConnectionEnvVar is the environment variable checked for a PostgreSQL
	// connection string before falling back to the OS keyring
	ConnectionEnvVar = "KINDLING_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "kindling-"
	BackupFileSuffix = ".db"

	// DefaultStreakLookbackDays bounds the backward walk of the streak
	// calculator. Streaks longer than this are reported at the cap.
	DefaultStreakLookbackDays = 365
)
