package account

import (
	"net/mail"
	"strings"
)

// EmailMaxLength はemailの最大文字数。
const EmailMaxLength = 255

// NormalizeEmail はemailを正規化する。
// 前後の空白を除去し、ドメイン部のみを小文字化する。ローカル部はそのまま保持する。
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// ValidateEmail は正規化済みemailの形式を検証し、問題があればメッセージを返す。
// 問題がなければ空文字列を返す。
func ValidateEmail(email string) string {
	if email == "" {
		return "メールアドレスは必須です。"
	}
	if len([]rune(email)) > EmailMaxLength {
		return "メールアドレスは255文字以内で入力してください。"
	}

	// 表示名付きの形式（"Name <a@b>"）は受け付けない
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "有効なメールアドレスを入力してください。"
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "有効なメールアドレスを入力してください。"
	}
	if domain != "localhost" && !strings.Contains(domain, ".") {
		return "有効なメールアドレスを入力してください。"
	}
	return ""
}
