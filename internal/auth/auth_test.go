// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %q/%q, want admin/admin", claims.Username, claims.Role)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	m := newTestManager(t, time.Hour)
	token, err := m.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token: err = %v, want ErrInvalidToken", err)
	}

	if _, err := m.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := newTestManager(t, -time.Minute)
	token, err := m.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "ffffffffffffffffffffffffffffffff",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	token, err := other.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestCredentialChecker(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	c := NewCredentialChecker(&config.SecurityConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	})

	if err := c.Verify("admin", "correct horse battery staple"); err != nil {
		t.Errorf("valid credentials: err = %v, want nil", err)
	}
	if err := c.Verify("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if err := c.Verify("root", "correct horse battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong username: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestCredentialCheckerNoHashConfigured(t *testing.T) {
	c := NewCredentialChecker(&config.SecurityConfig{AdminUsername: "admin"})
	if err := c.Verify("admin", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("no hash: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestMiddleware(t *testing.T) {
	m := newTestManager(t, time.Hour)
	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("expected claims in context")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	token, err := m.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
					t.Errorf("body = %q, want UNAUTHORIZED error", rec.Body.String())
				}
			}
		})
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) != nil {
			t.Error("expected no claims when auth is disabled")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}
