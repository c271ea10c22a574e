// Package auth はログイントークンの発行と検証、操作権限の判定を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/profiles/internal/account"
	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
)

// LoginRecorder はログイン結果のメトリクス記録インターフェース。
type LoginRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	TokenSecret []byte        // トークン署名鍵
	TokenTTL    time.Duration // トークン有効期間
}

// LoginResult はログイン成功時に発行したトークン。
type LoginResult struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Account   *model.Account
}

// Service はログイン、トークン検証、ログアウトを提供する。
type Service struct {
	accounts repository.AccountRepository
	tokens   repository.AuthTokenRepository
	signer   *TokenSigner
	config   ServiceConfig
	recorder LoginRecorder
	now      func() time.Time
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(
	accounts repository.AccountRepository,
	tokens repository.AuthTokenRepository,
	config ServiceConfig,
	recorder LoginRecorder,
) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		signer:   NewTokenSigner(config.TokenSecret),
		config:   config,
		recorder: recorder,
		now:      time.Now,
	}
}

// Login はemailとパスワードを検証し、トークンを発行する。
// アカウントが存在しない、無効化されている、パスワードが一致しない、のいずれの場合も
// 同じ認証エラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var fields []model.FieldError
	if email == "" {
		fields = append(fields, model.FieldError{Field: "email", Message: "この項目は必須です。"})
	}
	if password == "" {
		fields = append(fields, model.FieldError{Field: "password", Message: "この項目は必須です。"})
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError(fields...)
	}

	a, err := s.accounts.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if a == nil || !a.IsActive || !account.CheckPassword(a.PasswordHash, password) {
		if s.recorder != nil {
			s.recorder.RecordLoginFailure()
		}
		slog.Warn("ログインに失敗しました", slog.String("email", account.NormalizeEmail(email)))
		return nil, model.NewInvalidCredentialsError()
	}

	now := s.now()
	token := &model.AuthToken{
		ID:        uuid.New().String(),
		AccountID: a.ID,
		ExpiresAt: now.Add(s.config.TokenTTL),
		CreatedAt: now,
	}
	signed, err := s.signer.Sign(token.ID, a.ID, now, token.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("トークンの保存に失敗しました: %w", err)
	}

	if err := s.accounts.UpdateLastLogin(ctx, a.ID, now); err != nil {
		return nil, fmt.Errorf("最終ログイン日時の更新に失敗しました: %w", err)
	}
	a.LastLogin = &now

	if s.recorder != nil {
		s.recorder.RecordLoginSuccess()
	}
	slog.Info("ログインしました",
		slog.String("account_id", a.ID),
		slog.String("token_id", token.ID),
	)

	return &LoginResult{
		Token:     signed,
		TokenID:   token.ID,
		ExpiresAt: token.ExpiresAt,
		Account:   a,
	}, nil
}

// Authenticate はトークンを検証し、所有アカウントとトークンIDを返す。
// 署名不正、期限切れ、失効済み、アカウント無効のいずれも認証エラーとする。
func (s *Service) Authenticate(ctx context.Context, raw string) (*model.Account, string, error) {
	if raw == "" {
		return nil, "", model.NewUnauthorizedError()
	}

	claims, err := s.signer.Parse(raw)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, "", model.NewUnauthorizedError()
		}
		return nil, "", err
	}

	// 失効（ログアウト、アカウント削除）はauth_tokensの行の有無で判定する
	token, err := s.tokens.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの取得に失敗しました: %w", err)
	}
	if token == nil || token.AccountID != claims.AccountID {
		return nil, "", model.NewUnauthorizedError()
	}

	a, err := s.accounts.FindByID(ctx, token.AccountID)
	if err != nil {
		return nil, "", fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if a == nil || !a.IsActive {
		return nil, "", model.NewUnauthorizedError()
	}

	return a, token.ID, nil
}

// Logout はトークンを失効させる。
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("token ID is required")
	}

	if err := s.tokens.DeleteByID(ctx, tokenID); err != nil {
		return fmt.Errorf("トークンの削除に失敗しました: %w", err)
	}

	slog.Info("ログアウトしました", slog.String("token_id", tokenID))
	return nil
}
