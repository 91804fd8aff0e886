package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackr/backend/internal/auth"
	pkgAuth "github.com/subtrackr/backend/pkg/auth"
	"github.com/subtrackr/backend/pkg/auth/session"
	"github.com/subtrackr/backend/pkg/config"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

type testAuthService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error)
	refreshFn  func(ctx context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error)
	logoutFn   func(ctx context.Context, accessID string) error
}

func (s *testAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return &auth.TokenResponse{}, nil
}

func (s *testAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.TokenResponse{}, nil
}

func (s *testAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, req)
	}
	return &auth.TokenResponse{}, nil
}

func (s *testAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func TestAuthRegisterSuccess(t *testing.T) {
	var captured auth.RegisterRequest
	svc := &testAuthService{
		registerFn: func(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
			captured = req
			return &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
		},
	}

	body := `{"email":"new@example.com","password":"supersecret","name":"New User"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Email != "new@example.com" {
		t.Fatalf("unexpected request %+v", captured)
	}
	var envelope struct {
		Data auth.TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	body := `{"email":"new@example.com","password":"short","name":"New User"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(&testAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	body := `{"email":"user@example.com","password":"wrongpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutAcceptsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var revoked string
	svc := &testAuthService{
		logoutFn: func(ctx context.Context, id string) error {
			revoked = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthLogout(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if revoked != accessID {
		t.Fatalf("expected session %s revoked got %s", accessID, revoked)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&testAuthService{}, config.JWTConfig{Secret: "secret", Issuer: "issuer"}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
