// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/profiles/internal/model"
)

var (
	// ErrDuplicateEmail はemailの一意制約違反を表す。
	// 比較は小文字化したemailで行われる。
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrNotFound は更新・削除対象のレコードが存在しないことを表す。
	ErrNotFound = errors.New("record not found")
)

// AccountInserter はアカウントの新規作成インターフェース。
// account.Manager だけがこのインターフェースを受け取る。
// パスワードのハッシュ化を経ずにアカウントが作られることを防ぐため、
// AccountRepository には作成操作を含めない。
type AccountInserter interface {
	// Insert はアカウントを作成する。
	// emailが既存アカウントと重複する場合はErrDuplicateEmailを返す。
	Insert(ctx context.Context, account *model.Account) error
}

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByEmail はemailでアカウントを検索する。大文字小文字は区別しない。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// List はアカウント一覧をemail順で返す。
	// searchが空でない場合はnameまたはemailの部分一致で絞り込む。
	List(ctx context.Context, search string) ([]*model.Account, error)

	// Update はemail、name、パスワードハッシュ、各種フラグを更新する。
	// emailが他のアカウントと重複する場合はErrDuplicateEmailを返す。
	Update(ctx context.Context, account *model.Account) error

	// UpdateLastLogin は最終ログイン日時を更新する。
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// DeleteByID は指定IDのアカウントを削除する。
	// 関連するfeed_items、auth_tokensはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// FeedItemRepository はステータス投稿の永続化インターフェース。
type FeedItemRepository interface {
	// Create は投稿を作成する。
	Create(ctx context.Context, item *model.FeedItem) error

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FeedItem, error)

	// List は全投稿を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.FeedItem, error)

	// ListByOwner は指定アカウントの投稿を作成日時の降順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.FeedItem, error)

	// DeleteByID は指定IDの投稿を削除する。所有者アカウントには影響しない。
	DeleteByID(ctx context.Context, id string) error
}

// AuthTokenRepository はログイントークンの永続化インターフェース。
type AuthTokenRepository interface {
	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.AuthToken) error
	// FindByID は指定IDのトークンを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AuthToken, error)
	// DeleteByID は指定IDのトークンを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByAccountID は指定アカウントの全トークンを削除する。
	DeleteByAccountID(ctx context.Context, accountID string) error
}
