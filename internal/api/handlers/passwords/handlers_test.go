package passwords

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Davide1809/password-health-tracker/internal/breach"
)

func breachStub(t *testing.T, body string) *breach.Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return breach.NewWithClient(srv.URL, "", srv.Client())
}

func TestAnalyzeReturnsScoreAndBreachState(t *testing.T) {
	// Suffix for SHA-1("password123") after the 5-char prefix CBFDA.
	checker := breachStub(t, "C6008F9CAB4083784CBD1874F76618D2A97:12345\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/passwords/analyze",
		strings.NewReader(`{"password":"password123"}`))
	rec := httptest.NewRecorder()
	Analyze(checker).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Score       int      `json:"score"`
			Strength    string   `json:"strength"`
			Breached    *bool    `json:"breached"`
			BreachCount int      `json:"breach_count"`
			Recs        []string `json:"recommendations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Score > 1 {
		t.Fatalf("password123 scored %d, want <= 1", resp.Data.Score)
	}
	if resp.Data.Breached == nil || !*resp.Data.Breached {
		t.Fatalf("breached = %v, want true", resp.Data.Breached)
	}
	if resp.Data.BreachCount != 12345 {
		t.Fatalf("breach count = %d", resp.Data.BreachCount)
	}
	if len(resp.Data.Recs) == 0 {
		t.Fatal("expected recommendations")
	}
}

func TestAnalyzeRejectsMissingPassword(t *testing.T) {
	checker := breachStub(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/passwords/analyze",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	Analyze(checker).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeRejectsOversizePassword(t *testing.T) {
	checker := breachStub(t, "")
	body := `{"password":"` + strings.Repeat("a", 129) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/passwords/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Analyze(checker).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/passwords/generate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	Generate().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Password    string `json:"password"`
			MeetsPolicy bool   `json:"meets_policy"`
			Errors      []string `json:"validation_errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Password) != 16 {
		t.Fatalf("default length = %d, want 16", len(resp.Data.Password))
	}
	if !resp.Data.MeetsPolicy {
		t.Fatalf("generated password should meet policy, errors %v", resp.Data.Errors)
	}
}

func TestGenerateClampsLength(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/passwords/generate",
		strings.NewReader(`{"length":99}`))
	rec := httptest.NewRecorder()
	Generate().ServeHTTP(rec, req)

	var resp struct {
		Data struct {
			Password string `json:"password"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Password) != 32 {
		t.Fatalf("length = %d, want clamped 32", len(resp.Data.Password))
	}
}
