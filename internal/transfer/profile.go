// Package transfer はAPIの入出力とドメインモデルの変換、入力検証を提供する。
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/profiles/internal/account"
	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/repository"
)

const (
	// NameMaxLength は名前の最大文字数。
	NameMaxLength = 255
	// PasswordMinLength はパスワードの最小文字数。
	PasswordMinLength = 8
	// PasswordMaxLength はパスワードの最大バイト数（bcryptの入力上限）。
	PasswordMaxLength = 72
)

// AccountManager はアカウント作成とパスワード設定のインターフェース。
// account.Managerが実装する。
type AccountManager interface {
	CreateUser(ctx context.Context, email, name string, password *string) (*model.Account, error)
	SetPassword(a *model.Account, raw string) error
}

// ProfileInput はプロフィールの入力。
// フィールドの未指定と空文字列を区別するためポインタで保持する。
type ProfileInput struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// ProfileRepresentation はプロフィールの出力表現。
// パスワードは書き込み専用のため、このフィールドを持たない。
type ProfileRepresentation struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProfileTransfer はプロフィール入力の検証とアカウントへの反映を行う。
type ProfileTransfer struct {
	manager  AccountManager
	accounts repository.AccountRepository
}

// NewProfileTransfer はProfileTransferを生成する。
func NewProfileTransfer(manager AccountManager, accounts repository.AccountRepository) *ProfileTransfer {
	return &ProfileTransfer{manager: manager, accounts: accounts}
}

// ValidateCreate は作成時の入力を検証する。全フィールドが必須。
func (t *ProfileTransfer) ValidateCreate(in ProfileInput) error {
	return validateProfile(in, false)
}

// ValidateUpdate は更新時の入力を検証する。
// partialがfalse（PUT）の場合は全フィールド必須、true（PATCH）の場合は指定されたフィールドのみ検証する。
func (t *ProfileTransfer) ValidateUpdate(in ProfileInput, partial bool) error {
	return validateProfile(in, partial)
}

// Create は入力を検証し、account.Manager経由でアカウントを作成する。
func (t *ProfileTransfer) Create(ctx context.Context, in ProfileInput) (*model.Account, error) {
	if err := t.ValidateCreate(in); err != nil {
		return nil, err
	}
	return t.manager.CreateUser(ctx, *in.Email, strings.TrimSpace(*in.Name), in.Password)
}

// Update は入力を検証し、既存アカウントに反映して保存する。
// パスワードは一般フィールドとは別に再ハッシュする。
// partialがtrueの場合、未指定のフィールドは変更しない。
func (t *ProfileTransfer) Update(ctx context.Context, existing *model.Account, in ProfileInput, partial bool) (*model.Account, error) {
	if err := t.ValidateUpdate(in, partial); err != nil {
		return nil, err
	}

	updated := *existing
	if in.Email != nil {
		updated.Email = account.NormalizeEmail(*in.Email)
	}
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		if err := t.manager.SetPassword(&updated, *in.Password); err != nil {
			return nil, err
		}
	}

	if err := t.accounts.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, model.NewEmailExistsError()
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NewProfileNotFoundError(existing.ID)
		}
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}
	return &updated, nil
}

// Represent はアカウントを出力表現に変換する。
func Represent(a *model.Account) ProfileRepresentation {
	return ProfileRepresentation{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

// RepresentList はアカウント一覧を出力表現に変換する。空の場合も空スライスを返す。
func RepresentList(accounts []*model.Account) []ProfileRepresentation {
	out := make([]ProfileRepresentation, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, Represent(a))
	}
	return out
}

func validateProfile(in ProfileInput, partial bool) error {
	var fields []model.FieldError
	required := func(field string) {
		fields = append(fields, model.FieldError{Field: field, Message: "この項目は必須です。"})
	}

	if in.Email == nil {
		if !partial {
			required("email")
		}
	} else if msg := account.ValidateEmail(account.NormalizeEmail(*in.Email)); msg != "" {
		fields = append(fields, model.FieldError{Field: "email", Message: msg})
	}

	if in.Name == nil {
		if !partial {
			required("name")
		}
	} else {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			fields = append(fields, model.FieldError{Field: "name", Message: "名前は空にできません。"})
		case utf8.RuneCountInString(name) > NameMaxLength:
			fields = append(fields, model.FieldError{Field: "name", Message: "名前は255文字以内で入力してください。"})
		}
	}

	if in.Password == nil {
		if !partial {
			required("password")
		}
	} else {
		// 下限は文字数、上限はbcryptの入力上限であるバイト数で判定する
		switch pw := *in.Password; {
		case utf8.RuneCountInString(pw) < PasswordMinLength:
			fields = append(fields, model.FieldError{Field: "password", Message: "パスワードは8文字以上で入力してください。"})
		case len(pw) > PasswordMaxLength:
			fields = append(fields, model.FieldError{Field: "password", Message: "パスワードは72バイト以内で入力してください。"})
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields...)
	}
	return nil
}
