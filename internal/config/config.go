package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"

	AIModeMock   = "mock"
	AIModeGemini = "gemini"

	AuthModeNone = "none"
	AuthModeDev  = "dev"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	required := []struct{ key, val string }{
		{"S3_ENDPOINT", c.Endpoint},
		{"S3_REGION", c.Region},
		{"S3_BUCKET", c.Bucket},
		{"S3_ACCESS_KEY_ID", c.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.SecretAccessKey},
	}
	missing := make([]string, 0, len(required))
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns an S3 summary safe for logs (no secrets).
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds access_key_id=%s",
		NonEmptyOrDash(c.Endpoint),
		NonEmptyOrDash(c.Region),
		NonEmptyOrDash(c.Bucket),
		NonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		SecretStatus(c.AccessKeyID),
	)
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// PlannerConfig tunes the weekly plan generator.
type PlannerConfig struct {
	CalorieFloorKcal int
	GoalAdjustKcal   int
	SlotFillRatio    float64
	// RepeatWindowDays: 0 = a food is used at most once per generated week.
	RepeatWindowDays int
	// RandomSeed: 0 = seed from the clock.
	RandomSeed uint64
}

// CatalogConfig points the generator at an external MongoDB food catalog.
type CatalogConfig struct {
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

func (c CatalogConfig) MongoEnabled() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string
	DatabaseURLPooled string
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	RateLimitRPS   int
	RateLimitBurst int

	Blob             BlobConfig
	ExportsMaxPerDay int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// AI day descriptions
	AIMode           string // mock | gemini
	AITemperature    float64
	AITimeoutSeconds int
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string

	Catalog CatalogConfig
	Planner PlannerConfig

	RunMigrationsOnStartup bool

	// Warnings collected while parsing; logged by main once a logger exists.
	Warnings []string
}

// Load собирает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	cfg.Port = envInt("PORT", 8080)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	cfg.DatabaseURLPooled = strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	cfg.DatabaseURLRaw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.DatabaseURLDirect = strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURLPooled, cfg.DatabaseURLRaw, cfg.DatabaseURLDirect)
	cfg.RunMigrationsOnStartup = parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	cfg.CORSAllowedOrigins = parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), cfg.Env)
	cfg.CORSAllowCredentials = parseBoolEnv("CORS_ALLOW_CREDENTIALS")

	cfg.RateLimitRPS = envInt("RATE_LIMIT_RPS", 0)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", 0)

	// ---------- Blob / S3 ----------
	presignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if presignTTL <= 0 {
		presignTTL = 900
	}
	cfg.Blob = BlobConfig{
		Mode: cfg.parseEnum("BLOB_MODE", BlobModeLocal, BlobModeLocal, BlobModeS3, BlobModeAuto),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
			PresignTTLSeconds: presignTTL,
			PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
		},
	}
	cfg.ExportsMaxPerDay = envInt("EXPORTS_MAX_PER_DAY", 20)

	// ---------- Auth ----------
	cfg.AuthMode = cfg.parseEnum("AUTH_MODE", AuthModeNone, AuthModeNone, AuthModeDev)
	cfg.AuthRequired = cfg.AuthMode != AuthModeNone && parseBoolEnv("AUTH_REQUIRED")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "change_me"
		if cfg.Env != "local" {
			cfg.warnf("JWT_SECRET is set to 'change_me' in non-local environment")
		}
	}
	cfg.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "diet-planner"
	}
	cfg.JWTTTLMinutes = envInt("JWT_TTL_MINUTES", 10080)

	// ---------- AI ----------
	cfg.AIMode = cfg.parseEnum("AI_MODE", AIModeMock, AIModeMock, AIModeGemini)
	cfg.AITemperature = clamp(envFloat("AI_TEMPERATURE", 0.7), 0, 2)
	cfg.AITimeoutSeconds = envInt("AI_TIMEOUT_SECONDS", 30)
	if cfg.AITimeoutSeconds <= 0 {
		cfg.AITimeoutSeconds = 30
	}
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.GeminiModel = strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	cfg.GeminiBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")), "/")
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1"
	}

	// ---------- Catalog ----------
	cfg.Catalog = CatalogConfig{
		MongoURI:        strings.TrimSpace(os.Getenv("CATALOG_MONGO_URI")),
		MongoDatabase:   envString("CATALOG_MONGO_DB", "diet_planner"),
		MongoCollection: envString("CATALOG_MONGO_COLLECTION", "foods"),
	}

	// ---------- Planner ----------
	cfg.Planner = PlannerConfig{
		CalorieFloorKcal: envInt("PLANNER_CALORIE_FLOOR_KCAL", 1200),
		GoalAdjustKcal:   envInt("PLANNER_GOAL_ADJUST_KCAL", 500),
		SlotFillRatio:    envFloat("PLANNER_SLOT_FILL_RATIO", 0.8),
		RepeatWindowDays: envInt("PLANNER_REPEAT_WINDOW_DAYS", 0),
		RandomSeed:       uint64(envInt("PLANNER_RANDOM_SEED", 0)),
	}
	if cfg.Planner.CalorieFloorKcal < 1200 {
		cfg.warnf("PLANNER_CALORIE_FLOOR_KCAL=%d below 1200, fallback to 1200", cfg.Planner.CalorieFloorKcal)
		cfg.Planner.CalorieFloorKcal = 1200
	}
	if r := cfg.Planner.SlotFillRatio; r <= 0 || r > 1 {
		cfg.warnf("PLANNER_SLOT_FILL_RATIO=%v out of (0,1], fallback to 0.8", r)
		cfg.Planner.SlotFillRatio = 0.8
	}
	if cfg.Planner.RepeatWindowDays < 0 {
		cfg.warnf("PLANNER_REPEAT_WINDOW_DAYS=%d is negative, fallback to 0", cfg.Planner.RepeatWindowDays)
		cfg.Planner.RepeatWindowDays = 0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.AIMode == AIModeGemini && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required when AI_MODE=gemini"))
	}
	if c.Blob.Mode == BlobModeS3 && !c.Blob.S3.IsConfigured() {
		errs = append(errs, fmt.Errorf("BLOB_MODE=s3 but S3 config is incomplete, missing=%v", c.Blob.S3.MissingRequired()))
	}
	return errors.Join(errs...)
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) parseEnum(key, defaultVal string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	c.warnf("unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func NonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func SecretStatus(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
