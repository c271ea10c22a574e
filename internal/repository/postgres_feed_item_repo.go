package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/profiles/internal/model"
)

// PostgresFeedItemRepo はPostgreSQLを使用したステータス投稿リポジトリ。
type PostgresFeedItemRepo struct {
	db *sql.DB
}

// NewPostgresFeedItemRepo はPostgresFeedItemRepoを生成する。
func NewPostgresFeedItemRepo(db *sql.DB) *PostgresFeedItemRepo {
	return &PostgresFeedItemRepo{db: db}
}

// Create は投稿を作成する。
func (r *PostgresFeedItemRepo) Create(ctx context.Context, item *model.FeedItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feed_items (id, user_profile_id, status_text, created_on)
		 VALUES ($1, $2, $3, $4)`,
		item.ID, item.OwnerID, item.StatusText, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feed item: %w", err)
	}
	return nil
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresFeedItemRepo) FindByID(ctx context.Context, id string) (*model.FeedItem, error) {
	item := &model.FeedItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_profile_id, status_text, created_on FROM feed_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.OwnerID, &item.StatusText, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feed item by ID: %w", err)
	}
	return item, nil
}

// List は全投稿を作成日時の降順で返す。
func (r *PostgresFeedItemRepo) List(ctx context.Context) ([]*model.FeedItem, error) {
	return r.query(ctx,
		`SELECT id, user_profile_id, status_text, created_on
		 FROM feed_items
		 ORDER BY created_on DESC, id`,
	)
}

// ListByOwner は指定アカウントの投稿を作成日時の降順で返す。
func (r *PostgresFeedItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.FeedItem, error) {
	return r.query(ctx,
		`SELECT id, user_profile_id, status_text, created_on
		 FROM feed_items
		 WHERE user_profile_id = $1
		 ORDER BY created_on DESC, id`,
		ownerID,
	)
}

// DeleteByID は指定IDの投稿を削除する。
func (r *PostgresFeedItemRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM feed_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete feed item: %w", err)
	}
	return requireAffected(result)
}

func (r *PostgresFeedItemRepo) query(ctx context.Context, query string, args ...interface{}) ([]*model.FeedItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed items: %w", err)
	}
	defer rows.Close()

	var items []*model.FeedItem
	for rows.Next() {
		item := &model.FeedItem{}
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.StatusText, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feed items: %w", err)
	}
	return items, nil
}

// compile-time interface check
var _ FeedItemRepository = (*PostgresFeedItemRepo)(nil)
