package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bmeams/models"
)

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	})

	req := httptest.NewRequest("GET", "/api/assets", nil)
	rec := httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareSkipsWebsocketUpgrade(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/api/ws", nil)
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		role    string
		want    int
	}{
		{"admin allowed", []string{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"engineer allowed among several", []string{models.RoleAdmin, models.RoleEngineer, models.RoleTechnician}, models.RoleEngineer, http.StatusOK},
		{"viewer rejected", []string{models.RoleAdmin, models.RoleEngineer, models.RoleTechnician}, models.RoleViewer, http.StatusForbidden},
		{"missing role rejected", []string{models.RoleAdmin}, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/api/assets", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), "userRole", tt.role))
			}
			rec := httptest.NewRecorder()
			RequireRole(tt.allowed...)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
