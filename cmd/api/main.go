package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/dbmigrate"
	"github.com/fdg312/diet-planner/internal/httpserver"
	"github.com/fdg312/diet-planner/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}
	logStartupBanner(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrationsOnStartup {
		sel, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			logger.Fatal("startup migrations", zap.Error(err))
		}
		logger.Info("startup migrations", zap.String("command", "up"), zap.String("using", sel.Source))
		if err := dbmigrate.Run(ctx, "up", sel.URL, nil, logger); err != nil {
			logger.Fatal("startup migrations failed", zap.Error(err))
		}
	}

	validateProductionConfig(logger, cfg)

	server, err := httpserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("server init", zap.Error(err))
	}

	if err := server.Start(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Close(closeCtx); err != nil {
		logger.Warn("close", zap.Error(err))
	}
}

// logStartupBanner: сводка конфигурации без секретов
func logStartupBanner(logger *zap.Logger, cfg *config.Config) {
	fields := []zap.Field{
		zap.Int("port", cfg.Port),
		zap.String("database", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)),
		zap.Bool("migrations_on_startup", cfg.RunMigrationsOnStartup),
		zap.String("auth_mode", cfg.AuthMode),
		zap.Bool("auth_required", cfg.AuthRequired),
		zap.String("jwt_secret", secretStatus(cfg.JWTSecret, "change_me")),
		zap.String("blob_mode", cfg.Blob.Mode),
		zap.Int("exports_max_per_day", cfg.ExportsMaxPerDay),
		zap.String("ai_mode", cfg.AIMode),
		zap.Strings("cors_origins", cfg.CORSAllowedOrigins),
		zap.Int("rate_limit_rps", cfg.RateLimitRPS),
		zap.Bool("catalog_mongo", cfg.Catalog.MongoEnabled()),
		zap.Int("planner_repeat_window_days", cfg.Planner.RepeatWindowDays),
	}
	if cfg.Blob.Mode != config.BlobModeLocal {
		fields = append(fields, zap.String("s3", cfg.Blob.S3.DiagnosticsSummary()))
	}
	if cfg.AIMode == config.AIModeGemini {
		fields = append(fields,
			zap.String("gemini_model", cfg.GeminiModel),
			zap.String("gemini_api_key", config.SecretStatus(cfg.GeminiAPIKey)),
		)
	}
	logger.Info("diet planner api", fields...)
}

// validateProductionConfig: фатальные проверки вне local
func validateProductionConfig(logger *zap.Logger, cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "prod" || cfg.Env == "staging"

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		logger.Fatal("JWT_SECRET must not be 'change_me' with AUTH_REQUIRED=1", zap.String("env", cfg.Env))
	}
	if isProd && cfg.DatabaseURL == "" {
		logger.Fatal("no DATABASE_URL configured", zap.String("env", cfg.Env))
	}
}

func secretStatus(v, insecureDefault string) string {
	switch v {
	case "":
		return "not set"
	case insecureDefault:
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
