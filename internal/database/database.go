package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
	"github.com/MuhammadMouostafa/library-management-system/internal/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver   string // sqlite (default) or postgres
	Path     string // SQLite file path, ":memory:" allowed
	DSN      string // PostgreSQL connection string
	LogLevel string // silent, error, warn, info
}

type Database struct {
	DB  *gorm.DB
	log *zap.Logger
}

// Models lists every table owned by the application, in migration order.
func Models() []any {
	return []any{
		&entities.Book{},
		&entities.Borrower{},
		&entities.Category{},
		&entities.Borrow{},
		&entities.AuditEvent{},
	}
}

func NewDatabase(opts Options, log *zap.Logger) (*Database, error) {
	log = logging.OrNop(log)

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(opts.LogLevel)),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == DriverSQLite {
		// One connection serialises transactions, which SQLite needs for the
		// check-then-write in borrow and return.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Database initialized", zap.String("driver", dialector.Name()), zap.String("target", describe(opts)))

	return &Database{DB: db, log: log}, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverSQLite:
		return sqlite.Open(sqliteDSN(opts.Path)), nil
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(opts.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
}

// sqliteDSN turns on foreign keys and a busy timeout for every connection.
func sqliteDSN(path string) string {
	if path == "" {
		path = "./library.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func describe(opts Options) string {
	if strings.EqualFold(opts.Driver, DriverPostgres) {
		return "postgres"
	}
	return opts.Path
}

func gormLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Ping checks that the database answers.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	d.log.Info("Closing database")
	return sqlDB.Close()
}
