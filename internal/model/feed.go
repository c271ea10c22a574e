// Package model はドメインモデルを定義する。
package model

import "time"

// StatusTextMaxLength はステータス本文の最大文字数。
const StatusTextMaxLength = 255

// FeedItem はアカウントに紐づくステータス更新を表す。
// 所有者は作成時のリクエスト送信者で固定され、作成後は更新しない。
type FeedItem struct {
	ID         string
	OwnerID    string
	StatusText string
	CreatedAt  time.Time
}

// String はステータス本文を返す。
func (f *FeedItem) String() string {
	return f.StatusText
}
