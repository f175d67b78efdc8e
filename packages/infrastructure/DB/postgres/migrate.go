package postgres

import (
	"errors"
	"flashauction/packages/infrastructure/DB/postgres/dblog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/stdlib"
)

// Doesn't require driver to be connected.
type Migrate struct {
	driver *Driver
}

func (m Migrate) init() (*migrate.Migrate, error) {
	dblog.Migration.Trace("Initializing DB driver for migrations...", nil)

	poolConfig, err := m.driver.conn.NewConfig()
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*poolConfig.ConnConfig)

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		m.driver.cfg.Current().DB().MigrationsPath,
		"postgres",
		dbDriver,
	)
	if err != nil {
		return nil, err
	}

	dblog.Migration.Trace("Initializing DB driver for migrations: OK", nil)

	return migrator, nil
}

func (m Migrate) run(description string, fn func(*migrate.Migrate) error) error {
	migrator, err := m.init()
	if err != nil {
		dblog.Migration.Error("Failed to initialize migrations", err.Error(), nil)
		return err
	}
	defer migrator.Close()

	dblog.Migration.Info("Applying migrations... ("+description+")", nil)

	if err := fn(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			dblog.Migration.Info("No changes to apply", nil)
			return nil
		}
		dblog.Migration.Error("Failed to apply migrations", err.Error(), nil)
		return err
	}

	dblog.Migration.Info("Migrations applied ("+description+")", nil)

	return nil
}

// Applies all pending migrations.
func (m Migrate) Up() error {
	return m.run("all up", (*migrate.Migrate).Up)
}

// Reverts the last applied migration.
func (m Migrate) Down() error {
	return m.Steps(-1)
}

func (m Migrate) Steps(n int) error {
	return m.run("version change: "+strconv.Itoa(n), func(migrator *migrate.Migrate) error {
		return migrator.Steps(n)
	})
}
