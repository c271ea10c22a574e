// Package account はアカウントの作成とパスワード管理を提供する。
// アカウントの新規作成はManagerのみが行う。
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
)

// CreationRecorder はアカウント作成のメトリクス記録インターフェース。
type CreationRecorder interface {
	RecordAccountCreated(superuser bool)
}

// Manager はアカウントの作成とパスワード設定を行う。
// repository.AccountInserter を受け取る唯一のコンポーネント。
type Manager struct {
	inserter   repository.AccountInserter
	bcryptCost int
	recorder   CreationRecorder
	now        func() time.Time
}

// NewManager はManagerの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewManager(
	inserter repository.AccountInserter,
	bcryptCost int,
	recorder CreationRecorder,
) *Manager {
	return &Manager{
		inserter:   inserter,
		bcryptCost: NormalizeCost(bcryptCost),
		recorder:   recorder,
		now:        time.Now,
	}
}

// CreateUser は一般アカウントを作成する。
// passwordがnilの場合は使用不可ハッシュを設定し、パスワード認証できないアカウントになる。
func (m *Manager) CreateUser(ctx context.Context, email, name string, password *string) (*model.Account, error) {
	account, err := m.createUser(ctx, email, name, password, false)
	if err != nil {
		return nil, err
	}

	if m.recorder != nil {
		m.recorder.RecordAccountCreated(false)
	}
	slog.Info("アカウントを作成しました",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)
	return account, nil
}

// CreateSuperuser はスタッフ権限とスーパーユーザー権限を持つアカウントを作成する。
// 名前とパスワードは必須。権限は作成時の1回のInsertで設定する。
func (m *Manager) CreateSuperuser(ctx context.Context, email, name, password string) (*model.Account, error) {
	var fields []model.FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, model.FieldError{Field: "name", Message: "スーパーユーザーには名前が必要です。"})
	}
	if password == "" {
		fields = append(fields, model.FieldError{Field: "password", Message: "スーパーユーザーにはパスワードが必要です。"})
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError(fields...)
	}

	account, err := m.createUser(ctx, email, name, &password, true)
	if err != nil {
		return nil, err
	}

	if m.recorder != nil {
		m.recorder.RecordAccountCreated(true)
	}
	slog.Info("スーパーユーザーを作成しました",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)
	return account, nil
}

// SetPassword はアカウントのパスワードハッシュを再計算する。永続化は行わない。
func (m *Manager) SetPassword(account *model.Account, raw string) error {
	hash, err := HashPassword(raw, m.bcryptCost)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return nil
}

// CheckPassword はアカウントのパスワードが平文と一致するかを返す。
func (m *Manager) CheckPassword(account *model.Account, raw string) bool {
	return CheckPassword(account.PasswordHash, raw)
}

func (m *Manager) createUser(ctx context.Context, email, name string, password *string, superuser bool) (*model.Account, error) {
	email = NormalizeEmail(email)
	if msg := ValidateEmail(email); msg != "" {
		return nil, model.NewValidationError(model.FieldError{Field: "email", Message: msg})
	}

	var hash string
	var err error
	if password != nil {
		hash, err = HashPassword(*password, m.bcryptCost)
	} else {
		hash, err = UnusablePassword()
	}
	if err != nil {
		return nil, err
	}

	now := m.now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.inserter.Insert(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailExistsError()
		}
		return nil, fmt.Errorf("アカウントの作成に失敗しました: %w", err)
	}
	return account, nil
}
