package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/searchktools/file-server/app"
	"github.com/searchktools/file-server/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		config.Usage(os.Stderr)
		if errors.Is(err, config.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr)

	if err := app.New(cfg, logger).Run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
