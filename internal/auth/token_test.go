package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenSigner_SignAndParse(t *testing.T) {
	signer := NewTokenSigner([]byte("test-secret"))
	now := time.Now()

	raw, err := signer.Sign("token-1", "account-1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	claims, err := signer.Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.ID != "token-1" {
		t.Errorf("ID = %q, want %q", claims.ID, "token-1")
	}
	if claims.AccountID != "account-1" {
		t.Errorf("AccountID = %q, want %q", claims.AccountID, "account-1")
	}
}

func TestTokenSigner_Parse_Rejects(t *testing.T) {
	signer := NewTokenSigner([]byte("test-secret"))
	now := time.Now()

	expired, _ := signer.Sign("token-1", "account-1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	otherKey, _ := NewTokenSigner([]byte("other-secret")).Sign("token-1", "account-1", now, now.Add(time.Hour))
	noJTI, _ := signer.Sign("", "account-1", now, now.Add(time.Hour))

	// alg=noneのトークンは受け付けない
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "token-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		AccountID: "account-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	// 有効期限のないトークンは受け付けない
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "token-1"},
		AccountID:        "account-1",
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name string
		raw  string
	}{
		{"期限切れ", expired},
		{"別の鍵で署名", otherKey},
		{"jtiなし", noJTI},
		{"署名なし", unsigned},
		{"有効期限なし", noExpiry},
		{"形式不正", "not-a-jwt"},
		{"空文字", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Parse(tt.raw)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
