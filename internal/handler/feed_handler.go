package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/transfer"
)

// FeedItemServiceInterface はステータス投稿ハンドラーが必要とするサービスインターフェース。
type FeedItemServiceInterface interface {
	Create(ctx context.Context, caller *model.Account, in transfer.FeedItemInput) (*model.FeedItem, error)
	List(ctx context.Context, ownerID string) ([]*model.FeedItem, error)
	Get(ctx context.Context, id string) (*model.FeedItem, error)
	Delete(ctx context.Context, caller *model.Account, id string) error
}

// FeedHandler はステータス投稿のHTTPハンドラー。
type FeedHandler struct {
	service FeedItemServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedItemServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// Create はステータスを投稿する。所有者は常に呼び出し元。
// POST /feed/
func (h *FeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var in transfer.FeedItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleServiceError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), caller, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transfer.RepresentFeedItem(item))
}

// List は投稿を新しい順に返す。?user_profile= で所有者を絞り込む。
// GET /feed/
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromRequest(w, r); !ok {
		return
	}

	items, err := h.service.List(r.Context(), r.URL.Query().Get("user_profile"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer.RepresentFeedItems(items))
}

// Get は投稿を1件返す。
// GET /feed/{id}/
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromRequest(w, r); !ok {
		return
	}

	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer.RepresentFeedItem(item))
}

// Delete は投稿を削除する。所有者のみ。
// DELETE /feed/{id}/
func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
