package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/profiles/internal/auth"
	"github.com/hitoshi/profiles/internal/middleware"
	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/transfer"
)

// --- モック定義 ---

// mockProfileService はProfileServiceInterfaceのモック実装。
type mockProfileService struct {
	registerFn func(ctx context.Context, in transfer.ProfileInput) (*model.Account, error)
	listFn     func(ctx context.Context, caller *model.Account, search string) ([]*model.Account, error)
	getFn      func(ctx context.Context, id string) (*model.Account, error)
	updateFn   func(ctx context.Context, caller *model.Account, id string, in transfer.ProfileInput, partial bool) (*model.Account, error)
	deleteFn   func(ctx context.Context, caller *model.Account, id string) error
}

func (m *mockProfileService) Register(ctx context.Context, in transfer.ProfileInput) (*model.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil, nil
}

func (m *mockProfileService) List(ctx context.Context, caller *model.Account, search string) ([]*model.Account, error) {
	if m.listFn != nil {
		return m.listFn(ctx, caller, search)
	}
	return nil, nil
}

func (m *mockProfileService) Get(ctx context.Context, id string) (*model.Account, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewProfileNotFoundError(id)
}

func (m *mockProfileService) Update(ctx context.Context, caller *model.Account, id string, in transfer.ProfileInput, partial bool) (*model.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, caller, id, in, partial)
	}
	return nil, nil
}

func (m *mockProfileService) Delete(ctx context.Context, caller *model.Account, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, caller, id)
	}
	return nil
}

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*auth.LoginResult, error)
	logoutFn func(ctx context.Context, tokenID string) error
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, model.NewInvalidCredentialsError()
}

func (m *mockAuthService) Logout(ctx context.Context, tokenID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, tokenID)
	}
	return nil
}

// mockFeedItemService はFeedItemServiceInterfaceのモック実装。
type mockFeedItemService struct {
	createFn func(ctx context.Context, caller *model.Account, in transfer.FeedItemInput) (*model.FeedItem, error)
	listFn   func(ctx context.Context, ownerID string) ([]*model.FeedItem, error)
	getFn    func(ctx context.Context, id string) (*model.FeedItem, error)
	deleteFn func(ctx context.Context, caller *model.Account, id string) error
}

func (m *mockFeedItemService) Create(ctx context.Context, caller *model.Account, in transfer.FeedItemInput) (*model.FeedItem, error) {
	if m.createFn != nil {
		return m.createFn(ctx, caller, in)
	}
	return nil, nil
}

func (m *mockFeedItemService) List(ctx context.Context, ownerID string) ([]*model.FeedItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockFeedItemService) Get(ctx context.Context, id string) (*model.FeedItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewFeedItemNotFoundError(id)
}

func (m *mockFeedItemService) Delete(ctx context.Context, caller *model.Account, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, caller, id)
	}
	return nil
}

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}

// --- テストヘルパー ---

// withAccount はテスト用にリクエストコンテキストに認証済みアカウントを注入するヘルパー。
func withAccount(r *http.Request, account *model.Account) *http.Request {
	return r.WithContext(middleware.ContextWithAccount(r.Context(), account, "token-"+account.ID))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディから統一エラーフォーマットをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var result middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

func strPtr(s string) *string {
	return &s
}
