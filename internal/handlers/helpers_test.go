package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/middleware"
	"gestaofinanceira/internal/validator"
)

const (
	testUserID     = "0190c6a4-aaaa-7000-8000-000000000001"
	testCategoryID = "0190c6a4-bbbb-7000-8000-000000000002"
	testRecordID   = "0190c6a4-cccc-7000-8000-000000000003"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{Env: "test", JWTSecret: "handler-test-secret", CurrencySymbol: "R$"})
}

// --- mock audit service ---

type auditEntry struct {
	userID, action, resourceType, resourceID string
	changes                                  map[string]interface{}
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, changes map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID, changes})
}

// --- test helpers ---

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func strPtr(s string) *string { return &s }

// --- helper tests ---

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-03-01T00:00:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"01/03/2024", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFlexibleTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlexibleTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseFlexibleTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRecordFilter(t *testing.T) {
	run := func(query string) (int, map[string]interface{}) {
		r := gin.New()
		r.GET("/f", func(c *gin.Context) {
			filter, err := parseRecordFilter(c)
			if err != nil {
				respondWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"has_from":     filter.FromDate != nil,
				"has_to":       filter.ToDate != nil,
				"has_kind":     filter.Kind != nil,
				"has_category": filter.CategoryID != nil,
			})
		})
		rec := doRequest(r, "GET", "/f?"+query, "")
		return rec.Code, parseJSON(t, rec)
	}

	code, body := run("from_date=2024-01-01&to_date=2024-01-31&kind=expense&category_id=" + testCategoryID)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, k := range []string{"has_from", "has_to", "has_kind", "has_category"} {
		if body[k] != true {
			t.Errorf("expected %s to be set", k)
		}
	}

	for _, q := range []string{
		"from_date=ontem",
		"to_date=2024-13-01",
		"from_date=2024-02-01&to_date=2024-01-01",
		"kind=transfer",
		"category_id=42",
	} {
		t.Run(q, func(t *testing.T) {
			code, body := run(q)
			if code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
			assertErrorCode(t, body, "INVALID_INPUT")
		})
	}
}
