// Package feeditem はステータス投稿の作成、参照、削除を提供する。
package feeditem

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

// FeedItemCreator は投稿入力の検証と作成のインターフェース。
// transfer.FeedItemTransferが実装する。
type FeedItemCreator interface {
	Create(ctx context.Context, in transfer.FeedItemInput, caller *model.Account) (*model.FeedItem, error)
}

// CreationRecorder は投稿作成のメトリクス記録インターフェース。
type CreationRecorder interface {
	RecordFeedItemCreated()
}

// Service はステータス投稿のサービス層。
type Service struct {
	creator  FeedItemCreator
	items    repository.FeedItemRepository
	recorder CreationRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(creator FeedItemCreator, items repository.FeedItemRepository, recorder CreationRecorder) *Service {
	return &Service{
		creator:  creator,
		items:    items,
		recorder: recorder,
	}
}

// Create は呼び出し元を所有者として投稿を作成する。
func (s *Service) Create(ctx context.Context, caller *model.Account, in transfer.FeedItemInput) (*model.FeedItem, error) {
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}

	item, err := s.creator.Create(ctx, in, caller)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordFeedItemCreated()
	}
	slog.Info("投稿を作成しました",
		slog.String("feed_item_id", item.ID),
		slog.String("account_id", caller.ID),
	)
	return item, nil
}

// List は投稿一覧を新しい順に返す。
// ownerIDが空でない場合は指定アカウントの投稿のみを返す。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.FeedItem, error) {
	var (
		items []*model.FeedItem
		err   error
	)
	if ownerID == "" {
		items, err = s.items.List(ctx)
	} else {
		if _, parseErr := uuid.Parse(ownerID); parseErr != nil {
			return []*model.FeedItem{}, nil
		}
		items, err = s.items.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}

// Get は指定IDの投稿を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.FeedItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewFeedItemNotFoundError(id)
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewFeedItemNotFoundError(id)
	}
	return item, nil
}

// Delete は自分の投稿を削除する。所有者のアカウントには影響しない。
func (s *Service) Delete(ctx context.Context, caller *model.Account, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanDeleteFeedItem(caller, item) {
		return model.NewForbiddenError()
	}

	if err := s.items.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewFeedItemNotFoundError(id)
		}
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}

	slog.Info("投稿を削除しました",
		slog.String("feed_item_id", id),
		slog.String("account_id", caller.ID),
	)
	return nil
}
