// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/profiles/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	accountContextKey = contextKey("account")
	tokenIDContextKey = contextKey("token_id")
)

// TokenAuthenticator はトークンの検証に必要なインターフェース。
// auth.Serviceが実装する。
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.Account, string, error)
}

// NewTokenAuthMiddleware はAuthorizationヘッダーのトークンを検証するミドルウェアを返す。
// "Token <jwt>" と "Bearer <jwt>" の両方の形式を受け付ける。
// 認証済みアカウントとトークンIDをリクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。
func NewTokenAuthMiddleware(authn TokenAuthenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromHeader(r.Header.Get("Authorization"))
			if raw == "" {
				WriteUnauthorized(w)
				return
			}

			account, tokenID, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					WriteUnauthorized(w)
					return
				}
				slog.Error("トークンの検証に失敗しました",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			markRequestAccount(r.Context(), account.ID)
			ctx := ContextWithAccount(r.Context(), account, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromHeader はAuthorizationヘッダー値からトークン部分を取り出す。
func tokenFromHeader(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AccountFromContext はリクエストコンテキストから認証済みアカウントを取得する。
// トークン認証ミドルウェアを通過したリクエストでのみ有効。
func AccountFromContext(ctx context.Context) (*model.Account, error) {
	account, ok := ctx.Value(accountContextKey).(*model.Account)
	if !ok || account == nil {
		return nil, fmt.Errorf("account not found in context")
	}
	return account, nil
}

// TokenIDFromContext はリクエストコンテキストから認証に使ったトークンIDを取得する。
func TokenIDFromContext(ctx context.Context) (string, error) {
	tokenID, ok := ctx.Value(tokenIDContextKey).(string)
	if !ok || tokenID == "" {
		return "", fmt.Errorf("token ID not found in context")
	}
	return tokenID, nil
}

// ContextWithAccount はコンテキストに認証済みアカウントとトークンIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAccount(ctx context.Context, account *model.Account, tokenID string) context.Context {
	ctx = context.WithValue(ctx, accountContextKey, account)
	return context.WithValue(ctx, tokenIDContextKey, tokenID)
}
