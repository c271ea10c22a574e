// Package profile はプロフィール（アカウント）の登録、参照、更新、削除を提供する。
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/profiles/internal/auth"
	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
	"github.com/hitoshi/profiles/internal/transfer"
)

// ProfileTransferer はプロフィール入力の検証と反映のインターフェース。
// transfer.ProfileTransferが実装する。
type ProfileTransferer interface {
	Create(ctx context.Context, in transfer.ProfileInput) (*model.Account, error)
	Update(ctx context.Context, existing *model.Account, in transfer.ProfileInput, partial bool) (*model.Account, error)
}

// TokenRevoker はアカウントのログイントークンを一括失効させるインターフェース。
// repository.AuthTokenRepositoryが実装する。
type TokenRevoker interface {
	DeleteByAccountID(ctx context.Context, accountID string) error
}

// Service はプロフィール管理のサービス層。
type Service struct {
	transfer ProfileTransferer
	accounts repository.AccountRepository
	tokens   TokenRevoker
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(tr ProfileTransferer, accounts repository.AccountRepository, tokens TokenRevoker) *Service {
	return &Service{
		transfer: tr,
		accounts: accounts,
		tokens:   tokens,
	}
}

// Register はプロフィールを新規登録する。認証は不要。
func (s *Service) Register(ctx context.Context, in transfer.ProfileInput) (*model.Account, error) {
	return s.transfer.Create(ctx, in)
}

// List はプロフィール一覧を返す。スタッフのみ利用できる。
// searchが空でない場合はnameまたはemailの部分一致で絞り込む。
func (s *Service) List(ctx context.Context, caller *model.Account, search string) ([]*model.Account, error) {
	if !auth.CanListProfiles(caller) {
		return nil, model.NewForbiddenError()
	}

	accounts, err := s.accounts.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("プロフィール一覧の取得に失敗しました: %w", err)
	}
	return accounts, nil
}

// Get は指定IDのプロフィールを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewProfileNotFoundError(id)
	}

	a, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if a == nil {
		return nil, model.NewProfileNotFoundError(id)
	}
	return a, nil
}

// Update は自分自身のプロフィールを更新する。
// partialがtrue（PATCH）の場合、未指定のフィールドは変更しない。
// パスワードを変更した場合は、そのアカウントの発行済みトークンを全て失効させる。
func (s *Service) Update(ctx context.Context, caller *model.Account, id string, in transfer.ProfileInput, partial bool) (*model.Account, error) {
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanEditProfile(caller, target) {
		return nil, model.NewForbiddenError()
	}

	updated, err := s.transfer.Update(ctx, target, in, partial)
	if err != nil {
		return nil, err
	}

	if in.Password != nil {
		if err := s.tokens.DeleteByAccountID(ctx, updated.ID); err != nil {
			return nil, fmt.Errorf("ログイントークンの失効に失敗しました: %w", err)
		}
		slog.Info("パスワード変更によりトークンを失効しました",
			slog.String("account_id", updated.ID),
		)
	}
	return updated, nil
}

// Delete は自分自身のプロフィールを削除する。
// 投稿とログイントークンはCASCADE削除される。
func (s *Service) Delete(ctx context.Context, caller *model.Account, id string) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanEditProfile(caller, target) {
		return model.NewForbiddenError()
	}

	if err := s.accounts.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewProfileNotFoundError(id)
		}
		return fmt.Errorf("プロフィールの削除に失敗しました: %w", err)
	}

	slog.Info("アカウントを削除しました",
		slog.String("account_id", id),
	)
	return nil
}
