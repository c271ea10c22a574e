package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UnusablePasswordPrefix はパスワード認証できないアカウントのハッシュ接頭辞。
// bcryptハッシュは"$"で始まるため衝突しない。
const UnusablePasswordPrefix = "!"

// unusableSuffixBytes は使用不可ハッシュに付与する乱数のバイト数（hexで40文字）。
const unusableSuffixBytes = 20

// NormalizeCost はbcryptのコストを有効範囲に収める。範囲外の場合はbcrypt.DefaultCostを返す。
func NormalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// HashPassword は平文パスワードをソルト付きbcryptハッシュに変換する。
func HashPassword(raw string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), NormalizeCost(cost))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// UnusablePassword はどの平文とも一致しないハッシュ値を生成する。
func UnusablePassword() (string, error) {
	b := make([]byte, unusableSuffixBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate unusable password: %w", err)
	}
	return UnusablePasswordPrefix + hex.EncodeToString(b), nil
}

// CheckPassword は平文パスワードがハッシュと一致するかを返す。
// 使用不可ハッシュに対しては常にfalseを返す。
func CheckPassword(hash, raw string) bool {
	if !IsUsableHash(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// IsUsableHash はハッシュがパスワード認証に使用できるかを返す。
func IsUsableHash(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, UnusablePasswordPrefix)
}
