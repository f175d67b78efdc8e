package app

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
)

type appArgs struct {
	Debug     *bool
	ShowLogs  *bool
	TraceLogs *bool
	Config    *string
	MigrateDB *string
}

var Args = new(appArgs)

func (a *appArgs) Parse() {
	parser := argparse.NewParser(
		"flashauction",
		"Flash auctions service: listings, auctions and bids of the P2P marketplace",
	)

	a.Debug = parser.Flag("d", "debug", &argparse.Options{
		Help: "Enable debug mode",
	})
	a.ShowLogs = parser.Flag("l", "show-logs", &argparse.Options{
		Help: "Show logs in terminal",
	})
	a.TraceLogs = parser.Flag("t", "trace-logs", &argparse.Options{
		Help: "Enable trace logs",
	})
	a.Config = parser.String("c", "config", &argparse.Options{
		Default: "flashauction.config.yaml",
		Help:    "Path to config file or to directory with config files",
	})
	a.MigrateDB = parser.String("M", "migrate-db", &argparse.Options{
		Help: "Apply DB migrations and exit, valid values:\n" +
			"\t\t\tUp - Apply all pending migrations\n" +
			"\t\t\tDown - Migrate back on 1 version\n" +
			"\t\t\tN - Number, if N > 0 then will migrate forward on N versions, if N < 0 then will migrate back on N versions",
	})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Println(parser.Usage(err))
		os.Exit(1)
	}
}
