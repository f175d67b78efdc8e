package main

import (
	"flashauction/cmd/app"
	"flashauction/packages/common/config"
	"flashauction/packages/common/logger"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
)

var migrateLogger = logger.NewSource("MIGRATE", logger.Default)

func main() {
	parser := argparse.NewParser("flashauction-migrate", "Application for applying database migrations to flash auctions DB")

	configPath := parser.String("c", "config", &argparse.Options{
		Default: "flashauction.config.yaml",
		Help:    "Path to config file or to directory with config files",
	})
	steps := parser.String("s", "steps", &argparse.Options{
		Required: true,
		Help: "(Required) Amount of database migration steps. Valid values:\n" +
			"\t\t\t- Up: Apply all pending migrations\n" +
			"\t\t\t- Down: Migrate back on 1 version\n" +
			"\t\t\t- N: Number, if N > 0 then will migrate forward on N versions, if N < 0 then will migrate back on N versions",
	})
	trace := parser.Flag("t", "trace-logs", &argparse.Options{
		Help: "Enable trace logs",
	})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Println(parser.Usage(err))
		os.Exit(1)
	}

	logger.Trace.Store(*trace)

	cfg := config.NewManager(*configPath)
	if err := cfg.Init(); err != nil {
		migrateLogger.Fatal("Failed to initialize config", err.Error(), nil)
	}

	if err := app.New(cfg).MigrateDB(*steps); err != nil {
		migrateLogger.Error("Failed to apply migrations", err.Error(), nil)
		os.Exit(1)
	}
}
