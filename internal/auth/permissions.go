package auth

import "github.com/hitoshi/profiles/internal/model"

// CanEditProfile は呼び出し元が対象プロフィールを更新・削除できるかを返す。
// 自分自身のプロフィールのみ編集できる。
func CanEditProfile(caller *model.Account, target *model.Account) bool {
	return caller != nil && target != nil && caller.ID == target.ID
}

// CanListProfiles は呼び出し元がプロフィール一覧を取得できるかを返す。
func CanListProfiles(caller *model.Account) bool {
	return caller != nil && caller.IsStaff
}

// CanDeleteFeedItem は呼び出し元が投稿を削除できるかを返す。
func CanDeleteFeedItem(caller *model.Account, item *model.FeedItem) bool {
	return caller != nil && item != nil && caller.ID == item.OwnerID
}
