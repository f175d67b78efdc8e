package main

import (
	"context"
	"flashauction/cmd/app"
	"flashauction/packages/common/config"
	"os"
	"runtime"
)

func main() {
	// Program wasn't tested on OS other than Linux.
	if runtime.GOOS != "linux" {
		println("[ CRITICAL ERROR ] OS is not supported. This program can be used only on Linux-based OS.")
		os.Exit(1)
	}

	app.Args.Parse()

	App := app.New(config.NewManager(*app.Args.Config))

	App.InitConfig()

	if *app.Args.MigrateDB != "" {
		if err := App.MigrateDB(*app.Args.MigrateDB); err != nil {
			println("Failed to apply migration.\n" + err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	App.InitConnections(context.Background())

	deps := App.InitRouter()

	App.EndInit()

	App.Start(deps)
}
