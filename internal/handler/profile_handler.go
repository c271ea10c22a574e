package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/profiles/internal/model"
	"github.com/hitoshi/profiles/internal/transfer"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Register(ctx context.Context, in transfer.ProfileInput) (*model.Account, error)
	List(ctx context.Context, caller *model.Account, search string) ([]*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	Update(ctx context.Context, caller *model.Account, id string, in transfer.ProfileInput, partial bool) (*model.Account, error)
	Delete(ctx context.Context, caller *model.Account, id string) error
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Create はアカウント登録を処理する。認証不要。
// POST /profile/
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in transfer.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleServiceError(w, err)
		return
	}

	account, err := h.service.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transfer.Represent(account))
}

// List はプロフィール一覧を返す。?search= でnameまたはemailを部分一致検索する。
// GET /profile/
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.List(r.Context(), caller, r.URL.Query().Get("search"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer.RepresentList(accounts))
}

// Get はプロフィールを1件返す。
// GET /profile/{id}/
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromRequest(w, r); !ok {
		return
	}

	account, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer.Represent(account))
}

// Update はプロフィール全体を更新する。
// PUT /profile/{id}/
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate は指定されたフィールドのみを更新する。
// PATCH /profile/{id}/
func (h *ProfileHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var in transfer.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleServiceError(w, err)
		return
	}

	account, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), in, partial)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer.Represent(account))
}

// Delete はアカウントを削除する。本人のみ。
// DELETE /profile/{id}/
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
