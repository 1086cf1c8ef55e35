package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/dbmigrate"
	"github.com/fdg312/diet-planner/internal/logging"
)

func main() {
	usage := "usage: go run ./cmd/migrate [" + strings.Join(dbmigrate.Commands, "|") + "]"
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if sel.Warning != "" {
		logger.Warn("migrate", zap.String("warning", sel.Warning))
	}
	logger.Info("migrate", zap.String("command", command), zap.String("using", sel.Source))

	if err := dbmigrate.Run(context.Background(), command, sel.URL, nil, logger); err != nil {
		logger.Fatal("migrate failed", zap.Error(err), zap.String("usage", usage))
	}
	logger.Info("migrate completed", zap.String("command", command))
}
