package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCheck(t *testing.T) {
	healthy := Dependency{Name: "redis", Ping: func(context.Context) error { return nil }}
	broken := Dependency{Name: "sqlite", Ping: func(context.Context) error { return errors.New("database is locked") }}

	tests := []struct {
		name       string
		deps       []Dependency
		wantStatus Status
	}{
		{name: "no dependencies", wantStatus: StatusHealthy},
		{name: "all healthy", deps: []Dependency{healthy}, wantStatus: StatusHealthy},
		{name: "one failing", deps: []Dependency{healthy, broken}, wantStatus: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChecker("v1", tt.deps...).Check(context.Background())
			if got.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if len(got.Checks) != len(tt.deps) {
				t.Errorf("expected %d checks, got %d", len(tt.deps), len(got.Checks))
			}
		})
	}
}

func TestReadyHandler(t *testing.T) {
	broken := Dependency{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	router := gin.New()
	router.GET("/health/ready", NewChecker("v1", broken).ReadyHandler())
	router.GET("/health/live", NewChecker("v1", broken).LiveHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	var body HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Checks["redis"].Error != "connection refused" {
		t.Errorf("unexpected redis check: %+v", body.Checks["redis"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected live to be 200 regardless of dependencies, got %d", rec.Code)
	}
}
