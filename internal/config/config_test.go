package config

import (
	"strings"
	"testing"
)

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "https://storage.yandexcloud.net",
		Bucket:   "bucket",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
	if cfg.IsConfigured() {
		t.Fatal("expected IsConfigured=false for partial config")
	}
}

func TestS3ConfigDiagnosticsSummaryHidesSecrets(t *testing.T) {
	cfg := S3Config{AccessKeyID: "AKIA123", SecretAccessKey: "topsecret"}
	summary := cfg.DiagnosticsSummary()
	if strings.Contains(summary, "AKIA123") || strings.Contains(summary, "topsecret") {
		t.Fatalf("summary leaks secrets: %s", summary)
	}
	if !strings.Contains(summary, "access_key_id=set") {
		t.Fatalf("expected access_key_id=set in %s", summary)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AI_MODE", "")
	t.Setenv("BLOB_MODE", "")
	t.Setenv("PLANNER_SLOT_FILL_RATIO", "")
	t.Setenv("PLANNER_REPEAT_WINDOW_DAYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "local" || cfg.Port != 8080 {
		t.Fatalf("unexpected env/port: %s/%d", cfg.Env, cfg.Port)
	}
	if cfg.Planner.CalorieFloorKcal != 1200 || cfg.Planner.GoalAdjustKcal != 500 {
		t.Fatalf("unexpected planner defaults: %+v", cfg.Planner)
	}
	if cfg.Planner.SlotFillRatio != 0.8 || cfg.Planner.RepeatWindowDays != 0 {
		t.Fatalf("unexpected planner defaults: %+v", cfg.Planner)
	}
	if cfg.AIMode != AIModeMock || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected ai defaults: %s/%s", cfg.AIMode, cfg.GeminiModel)
	}
	if cfg.Catalog.MongoEnabled() {
		t.Fatal("mongo catalog must be disabled without CATALOG_MONGO_URI")
	}
}

func TestLoadUnknownEnumFallsBackWithWarning(t *testing.T) {
	t.Setenv("AI_MODE", "openai")
	t.Setenv("BLOB_MODE", "ftp")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AIMode != AIModeMock {
		t.Fatalf("expected mock fallback, got %s", cfg.AIMode)
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Fatalf("expected local fallback, got %s", cfg.Blob.Mode)
	}
	if len(cfg.Warnings) < 2 {
		t.Fatalf("expected warnings for both keys, got %v", cfg.Warnings)
	}
}

func TestLoadPlannerOutOfRange(t *testing.T) {
	t.Setenv("PLANNER_SLOT_FILL_RATIO", "1.5")
	t.Setenv("PLANNER_REPEAT_WINDOW_DAYS", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Planner.SlotFillRatio != 0.8 {
		t.Fatalf("expected ratio fallback 0.8, got %v", cfg.Planner.SlotFillRatio)
	}
	if cfg.Planner.RepeatWindowDays != 0 {
		t.Fatalf("expected window fallback 0, got %d", cfg.Planner.RepeatWindowDays)
	}
}

func TestLoadCalorieFloorNeverBelow1200(t *testing.T) {
	for _, raw := range []string{"800", "0", "-5"} {
		t.Setenv("PLANNER_CALORIE_FLOOR_KCAL", raw)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("%s: Load: %v", raw, err)
		}
		if cfg.Planner.CalorieFloorKcal != 1200 {
			t.Errorf("%s: expected floor 1200, got %d", raw, cfg.Planner.CalorieFloorKcal)
		}
		if len(cfg.Warnings) == 0 {
			t.Errorf("%s: expected a warning", raw)
		}
	}

	t.Setenv("PLANNER_CALORIE_FLOOR_KCAL", "1500")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Planner.CalorieFloorKcal != 1500 {
		t.Errorf("expected floor 1500 kept, got %d", cfg.Planner.CalorieFloorKcal)
	}
}

func TestLoadGeminiRequiresKey(t *testing.T) {
	t.Setenv("AI_MODE", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when AI_MODE=gemini without GEMINI_API_KEY")
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" https://a.example , ,https://b.example", "prod")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
	if parseCORSOrigins("", "prod") != nil {
		t.Fatal("expected deny-by-default outside local")
	}
}
