// Package security はアプリケーションのセキュリティ機能を提供する。
//
// StatusSanitizer はステータス投稿の本文から全てのHTMLマークアップを除去し、
// プレーンテキストとして保存できる形に整える。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// ステータス投稿の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力から全てのタグを除去したプレーンテキストを返す。
	// script, styleタグは内容ごと除去する。
	// 前後の空白は取り除く。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// StatusSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなので共有して使う。
type StatusSanitizer struct {
	policy *bluemonday.Policy
}

// maxSanitizePasses はエンティティの多重エンコードを剥がす最大回数。
const maxSanitizePasses = 8

// NewStatusSanitizer はStatusSanitizerを生成する。
// 許可タグを持たないStrictPolicyを使用する。
func NewStatusSanitizer() *StatusSanitizer {
	return &StatusSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力から全てのタグを除去したプレーンテキストを返す。
// StrictPolicyの出力はHTMLエスケープされているため、アンエスケープ後に再度サニタイズし、
// 結果が変化しなくなるまで繰り返す。エンコードされたタグもここで除去される。
func (s *StatusSanitizer) Sanitize(raw string) string {
	text := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := s.pass(text)
		if next == text {
			return text
		}
		text = next
	}
	// 収束しない多重エンコードはタグとエンティティの記号を落とす
	return strings.TrimSpace(markupSymbols.Replace(s.pass(text)))
}

func (s *StatusSanitizer) pass(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

var markupSymbols = strings.NewReplacer("<", "", ">", "", "&", "")

var _ ContentSanitizerService = (*StatusSanitizer)(nil)
