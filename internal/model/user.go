// Package model はドメインモデルを定義する。
package model

import "time"

// Account はサービス利用者のアカウントを表す。
// emailをログインIDとして使用し、パスワードはハッシュのみを保持する。
// 生成はaccount.Managerからのみ行うこと。
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName はアカウントの表示名を返す。名前フィールドは1つのみ。
func (a *Account) FullName() string {
	return a.Name
}

// ShortName はアカウントの短縮名を返す。
func (a *Account) ShortName() string {
	return a.Name
}

// String はアカウントの文字列表現としてemailを返す。
func (a *Account) String() string {
	return a.Email
}

// AuthToken はログイン時に発行したトークンを表す。
// IDはJWTのjtiと一致し、行を削除するとトークンは失効する。
type AuthToken struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}
