package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/shop/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	storageURIFlag    = "storage-uri"
	databaseFlag      = "database"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
)

const connectTimeout = 10 * time.Second

type flags struct {
	storageURI     string
	database       string
	migrationsPath string
	down           bool
}

func main() {
	f := getFlagsValues()
	validateFlags(f)
	makeMigrations(f)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() flags {
	storageURI := pflag.StringP(storageURIFlag, "s", "", "mongodb connection uri")
	database := pflag.StringP(databaseFlag, "d", "shop", "database name")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "", "migrations dir")
	down := pflag.Bool(downFlag, false, "roll every migration back")
	pflag.Parse()
	return flags{*storageURI, *database, *migrationsPath, *down}
}

func validateFlags(f flags) {
	var errs []error

	if f.storageURI == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storageURIFlag))
	}

	if f.database == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", databaseFlag))
	}

	if f.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(f flags) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := storage.NewMongoDB(ctx, f.storageURI, f.database)
	if err != nil {
		slog.Error("failed to connect", "err", err)
		fallDown()
	}
	defer db.Close(context.Background())

	driver, err := mongodb.WithInstance(
		db.Client(), &mongodb.Config{DatabaseName: f.database},
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", f.migrationsPath), f.database, driver,
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	apply := m.Up
	if f.down {
		apply = m.Down
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied\n")
}

func fallDown() {
	os.Exit(2)
}
