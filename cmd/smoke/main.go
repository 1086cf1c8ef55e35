package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase   string
	token     string
	client    = &http.Client{Timeout: 60 * time.Second}
	createdID = make(map[string]string)
)

// seedFoods: минимальный каталог, чтобы у каждого слота был выбор
var seedFoods = []map[string]any{
	{"name": "Oatmeal with Banana", "calories": 300, "protein_g": 10, "carbs_g": 54, "fat_g": 6, "meal_types": []string{"breakfast"}, "diet_type": "balanced"},
	{"name": "Greek Yogurt Parfait", "calories": 250, "protein_g": 15, "carbs_g": 30, "fat_g": 8, "meal_types": []string{"breakfast", "snacks"}, "diet_type": "veg"},
	{"name": "Vegetable Poha", "calories": 280, "protein_g": 6, "carbs_g": 50, "fat_g": 7, "meal_types": []string{"breakfast"}, "diet_type": "veg"},
	{"name": "Chicken Caesar Salad", "calories": 450, "protein_g": 35, "carbs_g": 15, "fat_g": 28, "meal_types": []string{"lunch"}, "diet_type": "non_veg"},
	{"name": "Rajma Chawal", "calories": 520, "protein_g": 18, "carbs_g": 85, "fat_g": 10, "meal_types": []string{"lunch", "dinner"}, "diet_type": "veg"},
	{"name": "Quinoa Buddha Bowl", "calories": 500, "protein_g": 15, "carbs_g": 70, "fat_g": 18, "meal_types": []string{"lunch"}, "diet_type": "balanced"},
	{"name": "Grilled Salmon with Rice", "calories": 600, "protein_g": 40, "carbs_g": 50, "fat_g": 22, "meal_types": []string{"dinner"}, "diet_type": "non_veg"},
	{"name": "Paneer Tikka with Roti", "calories": 550, "protein_g": 28, "carbs_g": 45, "fat_g": 26, "meal_types": []string{"dinner"}, "diet_type": "veg"},
	{"name": "Mixed Nuts", "calories": 180, "protein_g": 6, "carbs_g": 8, "fat_g": 16, "meal_types": []string{"snacks"}, "diet_type": "balanced"},
	{"name": "Apple with Peanut Butter", "calories": 200, "protein_g": 5, "carbs_g": 25, "fat_g": 9, "meal_types": []string{"snacks"}, "diet_type": "balanced"},
}

func main() {
	fmt.Println("=== Diet Planner E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Seed Foods", testSeedFoods},
		{"Create Profile", testCreateProfile},
		{"Get Targets", testGetTargets},
		{"Generate Plan", testGeneratePlan},
		{"Get Plan", testGetPlan},
		{"Get Today", testGetToday},
		{"Export Plan (CSV)", testExportPlan},
		{"Download Export", testDownloadExport},
		{"Delete Export", testDeleteExport},
		{"Delete Plan", testDeletePlan},
		{"Delete Profile", testDeleteProfile},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	return doJSON(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// testDevAuth берёт токен через /v1/auth/dev; 404 значит авторизация выключена
func testDevAuth() error {
	if token != "" {
		return nil
	}
	var result struct {
		AccessToken string `json:"access_token"`
	}
	status, err := send(http.MethodPost, "/v1/auth/dev", map[string]string{"user_id": "smoke-user"}, &result)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		token = result.AccessToken
	case http.StatusNotFound:
	default:
		return fmt.Errorf("status=%d", status)
	}
	return nil
}

func testSeedFoods() error {
	for _, food := range seedFoods {
		status, err := send(http.MethodPost, "/v1/foods", food, nil)
		if err != nil {
			return err
		}
		// 409: уже засеяно предыдущим прогоном
		if status != http.StatusCreated && status != http.StatusConflict {
			return fmt.Errorf("food %v: status=%d", food["name"], status)
		}
	}
	return nil
}

func testCreateProfile() error {
	var result struct {
		ID string `json:"id"`
	}
	body := map[string]any{
		"name":           "Smoke",
		"weight_kg":      72,
		"height_cm":      178,
		"age":            29,
		"gender":         "male",
		"activity_level": "moderate",
		"goal":           "maintenance",
		"diet_type":      "veg",
	}
	if err := doJSON(http.MethodPost, "/v1/profiles", body, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("empty profile id")
	}
	createdID["profile"] = result.ID
	return nil
}

func testGetTargets() error {
	var result struct {
		Targets struct {
			DailyTarget int `json:"daily_target"`
		} `json:"targets"`
	}
	if err := doJSON(http.MethodGet, "/v1/profiles/"+createdID["profile"]+"/targets", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Targets.DailyTarget < 1200 {
		return fmt.Errorf("daily_target=%d below floor", result.Targets.DailyTarget)
	}
	return nil
}

func testGeneratePlan() error {
	var result struct {
		Plan struct {
			ID   string            `json:"id"`
			Days []json.RawMessage `json:"days"`
		} `json:"plan"`
	}
	body := map[string]any{"profile_id": createdID["profile"], "include_descriptions": true}
	if err := doJSON(http.MethodPost, "/v1/diet/generate", body, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Plan.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(result.Plan.Days))
	}
	createdID["plan"] = result.Plan.ID
	return nil
}

func testGetPlan() error {
	var result struct {
		Plan *struct {
			ID string `json:"id"`
		} `json:"plan"`
	}
	if err := doJSON(http.MethodGet, "/v1/diet/plan?profile_id="+createdID["profile"], nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Plan == nil || result.Plan.ID != createdID["plan"] {
		return fmt.Errorf("active plan mismatch")
	}
	return nil
}

func testGetToday() error {
	var result struct {
		DayIndex int `json:"day_index"`
		Day      *struct {
			Day string `json:"day"`
		} `json:"day"`
	}
	if err := doJSON(http.MethodGet, "/v1/diet/today?profile_id="+createdID["profile"], nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Day == nil {
		return fmt.Errorf("no day returned")
	}
	if want := time.Now().UTC().Weekday().String(); result.Day.Day != want {
		return fmt.Errorf("expected %s, got %s", want, result.Day.Day)
	}
	return nil
}

func testExportPlan() error {
	var result struct {
		ID          string `json:"id"`
		DownloadURL string `json:"download_url"`
	}
	body := map[string]any{"profile_id": createdID["profile"], "format": "csv"}
	if err := doJSON(http.MethodPost, "/v1/diet/plan/export", body, http.StatusCreated, &result); err != nil {
		return err
	}
	createdID["export"] = result.ID
	return nil
}

func testDownloadExport() error {
	req, err := http.NewRequest(http.MethodGet, apiBase+"/v1/exports/"+createdID["export"]+"/download", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	// client следует редиректу на presigned URL в S3 режиме
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("day,meal,food")) {
		return fmt.Errorf("unexpected csv header: %.40q", data)
	}
	return nil
}

func testDeleteExport() error {
	return doJSON(http.MethodDelete, "/v1/exports/"+createdID["export"], nil, http.StatusNoContent, nil)
}

func testDeletePlan() error {
	return doJSON(http.MethodDelete, "/v1/diet/plan?profile_id="+createdID["profile"], nil, http.StatusNoContent, nil)
}

func testDeleteProfile() error {
	return doJSON(http.MethodDelete, "/v1/profiles/"+createdID["profile"], nil, http.StatusNoContent, nil)
}

// Helper functions

func doJSON(method, path string, in any, wantStatus int, out any) error {
	status, err := send(method, path, in, out)
	if err != nil {
		return err
	}
	if status != wantStatus {
		return fmt.Errorf("%s %s: status=%d, want %d", method, path, status, wantStatus)
	}
	return nil
}

func send(method, path string, in any, out any) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode >= 400 {
		fmt.Printf("\n  %s %s -> %d %s\n  ", method, path, resp.StatusCode, string(data))
		return resp.StatusCode, nil
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode failed: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
