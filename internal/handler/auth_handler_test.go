package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/profiles/internal/auth"
	"github.com/hitoshi/profiles/internal/model"
)

// --- POST /login/ テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			if email != "a@example.com" || password != "password1" {
				t.Errorf("email=%q password=%q", email, password)
			}
			return &auth.LoginResult{
				Token:     "signed.jwt.token",
				TokenID:   "token-1",
				ExpiresAt: time.Now().Add(time.Hour),
				Account:   &model.Account{ID: "acc-1"},
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"email": "a@example.com", "password": "password1"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login/", bytes.NewBufferString(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["token"] != "signed.jwt.token" {
		t.Errorf("token = %q, want signed.jwt.token", got["token"])
	}
	if len(got) != 1 {
		t.Errorf("response should only contain token, got %v", got)
	}
}

// TestAuthHandler_Login_AcceptsUsername はemailの代わりにusernameフィールドを受け付けることを検証する。
func TestAuthHandler_Login_AcceptsUsername(t *testing.T) {
	var gotEmail string
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			gotEmail = email
			return &auth.LoginResult{Token: "t"}, nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"username": "a@example.com", "password": "password1"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login/", bytes.NewBufferString(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotEmail != "a@example.com" {
		t.Errorf("email = %q, want a@example.com", gotEmail)
	}
}

func TestAuthHandler_Login_InvalidCredentials_Returns400(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	body := `{"email": "a@example.com", "password": "wrong"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login/", bytes.NewBufferString(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := parseAPIErrorResponse(t, w); resp.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeInvalidCredentials)
	}
}

func TestAuthHandler_Login_MalformedJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login/", bytes.NewBufferString(`[`)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- POST /logout/ テスト ---

func TestAuthHandler_Logout_RevokesCurrentToken(t *testing.T) {
	var revoked string
	h := NewAuthHandler(&mockAuthService{
		logoutFn: func(ctx context.Context, tokenID string) error {
			revoked = tokenID
			return nil
		},
	})

	req := withAccount(httptest.NewRequest(http.MethodPost, "/logout/", nil), &model.Account{ID: "acc-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if revoked != "token-acc-1" {
		t.Errorf("revoked token = %q, want token-acc-1", revoked)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
