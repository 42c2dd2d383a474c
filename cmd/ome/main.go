package main

import (
	"context"
	"os"

	"github.com/decarv/ome/internal/app/engine"
	"github.com/decarv/ome/internal/app/repl"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	"github.com/decarv/ome/pkg/logger"
)

// The interactive shell. Logs go to stderr so stdout stays a clean command
// transcript.
func main() {
	instrument := os.Getenv("INSTRUMENT")
	if instrument == "" {
		instrument = "STOCK"
	}
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = string(logger.WarnLevel)
	}

	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(logLevel)),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	eng := engine.NewEngine(orderbookv1.NewBook(), log, instrument)

	shell := repl.New(eng, os.Stdin, os.Stdout, log)
	if err := shell.Run(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
