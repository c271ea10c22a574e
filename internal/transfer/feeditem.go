package transfer

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
	"github.com/hitoshi/profiles/internal/security"
)

// FeedItemInput はステータス投稿の入力。
// id、user_profileが送られても読み取らない。所有者は常に呼び出し元になる。
type FeedItemInput struct {
	StatusText *string `json:"status_text"`
}

// FeedItemRepresentation はステータス投稿の出力表現。
type FeedItemRepresentation struct {
	ID          string    `json:"id"`
	UserProfile string    `json:"user_profile"`
	StatusText  string    `json:"status_text"`
	CreatedOn   time.Time `json:"created_on"`
}

// FeedItemTransfer はステータス投稿の検証と作成を行う。
type FeedItemTransfer struct {
	items     repository.FeedItemRepository
	sanitizer security.ContentSanitizerService
	now       func() time.Time
}

// NewFeedItemTransfer はFeedItemTransferを生成する。
func NewFeedItemTransfer(items repository.FeedItemRepository, sanitizer security.ContentSanitizerService) *FeedItemTransfer {
	return &FeedItemTransfer{
		items:     items,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// Validate は入力を検証し、サニタイズ済みの本文を返す。
// 文字数の検証はマークアップ除去後の本文に対して行う。
func (t *FeedItemTransfer) Validate(in FeedItemInput) (string, error) {
	if in.StatusText == nil {
		return "", model.NewValidationError(model.FieldError{Field: "status_text", Message: "この項目は必須です。"})
	}

	text := t.sanitizer.Sanitize(*in.StatusText)
	if text == "" {
		return "", model.NewValidationError(model.FieldError{Field: "status_text", Message: "本文は空にできません。"})
	}
	if utf8.RuneCountInString(text) > model.StatusTextMaxLength {
		return "", model.NewValidationError(model.FieldError{Field: "status_text", Message: "本文は255文字以内で入力してください。"})
	}
	return text, nil
}

// Create は呼び出し元を所有者として投稿を作成する。
func (t *FeedItemTransfer) Create(ctx context.Context, in FeedItemInput, caller *model.Account) (*model.FeedItem, error) {
	text, err := t.Validate(in)
	if err != nil {
		return nil, err
	}

	item := &model.FeedItem{
		ID:         uuid.New().String(),
		OwnerID:    caller.ID,
		StatusText: text,
		CreatedAt:  t.now().UTC(),
	}
	if err := t.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return item, nil
}

// RepresentFeedItem は投稿を出力表現に変換する。
func RepresentFeedItem(item *model.FeedItem) FeedItemRepresentation {
	return FeedItemRepresentation{
		ID:          item.ID,
		UserProfile: item.OwnerID,
		StatusText:  item.StatusText,
		CreatedOn:   item.CreatedAt,
	}
}

// RepresentFeedItems は投稿一覧を出力表現に変換する。空の場合も空スライスを返す。
func RepresentFeedItems(items []*model.FeedItem) []FeedItemRepresentation {
	out := make([]FeedItemRepresentation, 0, len(items))
	for _, item := range items {
		out = append(out, RepresentFeedItem(item))
	}
	return out
}
