package main

import (
	"context"
	"log"
	"os"

	"github.com/studymate-app/studymate/internal/buildinfo"
	"github.com/studymate-app/studymate/internal/client/cli"
	"github.com/studymate-app/studymate/internal/client/config"
	"github.com/studymate-app/studymate/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.DevMode)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
