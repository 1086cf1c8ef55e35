package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/planner"
)

func sampleDay() planner.DailyPlan {
	return planner.DailyPlan{
		Day: "Monday",
		Meals: map[planner.Slot][]planner.MealEntry{
			planner.SlotBreakfast: {{Name: "Oatmeal with Banana", Calories: 300, ProteinG: 10}},
			planner.SlotLunch:     {{Name: "Quinoa Buddha Bowl", Calories: 500, ProteinG: 15}},
			planner.SlotDinner:    {{Name: "Tofu Stir-Fry", Calories: 450, ProteinG: 20}},
			planner.SlotSnacks:    {{Name: "Mixed Nuts", Calories: 180, ProteinG: 6}},
		},
		TotalCalories: 1430,
		Macros:        planner.Macros{Protein: 51},
	}
}

func TestGeminiProviderDescribeDay(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" A colorful day "},{"text":"of whole foods."}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider(&config.Config{GeminiAPIKey: "k123", GeminiModel: "gemini-2.5-flash", GeminiBaseURL: srv.URL})
	text, err := p.DescribeDay(context.Background(), sampleDay())
	if err != nil {
		t.Fatalf("DescribeDay: %v", err)
	}
	if text != "A colorful day of whole foods." {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" || gotKey != "k123" {
		t.Fatalf("unexpected request path=%s key=%s", gotPath, gotKey)
	}
	if !strings.Contains(gotPrompt, "max 40 words") || !strings.Contains(gotPrompt, "Tofu Stir-Fry") {
		t.Fatalf("prompt misses instructions or plan: %q", gotPrompt)
	}
}

func TestGeminiProviderErrors(t *testing.T) {
	status := http.StatusInternalServerError
	body := `{}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewGeminiProvider(&config.Config{GeminiAPIKey: "k", GeminiModel: "m", GeminiBaseURL: srv.URL})
	if _, err := p.DescribeDay(context.Background(), sampleDay()); err == nil {
		t.Fatal("expected error on 500")
	}

	status = http.StatusOK
	body = `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`
	if _, err := p.DescribeDay(context.Background(), sampleDay()); err != ErrEmptyResponse {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerateResponseFirstText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"parts", `{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}]}}]}`, "a b"},
		{"skips empty candidate", `{"candidates":[{"content":{"parts":[]}},{"content":{"parts":[{"text":"second"}]}}]}`, "second"},
		{"candidate text", `{"candidates":[{"text":" direct "}]}`, "direct"},
		{"top level", `{"text":"top"}`, "top"},
		{"nothing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r generateResponse
			if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
				t.Fatal(err)
			}
			if got := r.firstText(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockProviderIsDeterministic(t *testing.T) {
	p := NewMockProvider()
	a, _ := p.DescribeDay(context.Background(), sampleDay())
	b, _ := p.DescribeDay(context.Background(), sampleDay())
	if a != b || !strings.HasPrefix(a, "Monday") {
		t.Fatalf("unexpected mock text %q / %q", a, b)
	}
}
