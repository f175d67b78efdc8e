package app

import (
	"errors"
	"flashauction/packages/infrastructure/DB/postgres"
	"strconv"
	"strings"
)

var ErrInvalidMigrateSteps = errors.New("invalid 'migrate-db' argument value, expected: number or 'Up' or 'Down'")

// Applies migrations according to steps: "Up", "Down" or signed number of versions.
// Doesn't require DB connection.
func (a *App) MigrateDB(steps string) error {
	migrate := a.migrator()

	switch strings.ToLower(steps) {
	case "up":
		return migrate.Up()
	case "down":
		return migrate.Down()
	}

	n, err := strconv.Atoi(steps)
	if err != nil || n == 0 {
		return ErrInvalidMigrateSteps
	}

	return migrate.Steps(n)
}

func (a *App) migrator() postgres.Migrate {
	if a.DB == nil {
		a.DB = postgres.NewDriver(a.Config)
	}
	return a.DB.Migrate()
}
