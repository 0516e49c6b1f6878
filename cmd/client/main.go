package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/finapp/internal/buildinfo"
	"github.com/dmitrijs2005/finapp/internal/client/cli"
	"github.com/dmitrijs2005/finapp/internal/client/config"
	"github.com/dmitrijs2005/finapp/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// the terminal is the UI; keep log noise out of it
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
