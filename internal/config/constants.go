package config

const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./library.db"

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)
