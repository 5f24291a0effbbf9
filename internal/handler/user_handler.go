package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/accountd/internal/model"
	"github.com/hitoshi/accountd/internal/validation"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id, name, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

// UserHandler はユーザー参照・更新のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GetUser は指定IDのユーザーレコードを返す。
// GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			writeUserNotFound(w)
			return
		}
		slog.Error("failed to get user", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// updateUserRequest はPUT /users/{id}のリクエストボディ。
type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUser は指定IDのユーザーのnameとemailを更新する。
// 存在確認はバリデーションより先に行う（存在しないIDには404を返す）。
// PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.service.Get(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			writeUserNotFound(w)
			return
		}
		slog.Error("failed to get user", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	v := validation.New(
		validation.Rule{Field: "name", Required: true},
		// 一意性チェックは更新対象自身を除外する
		validation.Rule{Field: "email", Required: true, Email: true, Unique: h.emailUnique(id)},
	)
	errs, err := v.Validate(r.Context(), map[string]string{
		"name":  req.Name,
		"email": req.Email,
	})
	if err != nil {
		slog.Error("update validation failed", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}
	if errs.Any() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.service.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			writeUserNotFound(w)
		case errors.Is(err, model.ErrDuplicateEmail):
			writeValidationErrors(w, duplicateEmailErrors())
		default:
			slog.Error("failed to update user", slog.String("error", err.Error()))
			writeInternalServerError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// emailUnique はユーザーサービスに委譲する一意性チェック関数を返す。
func (h *UserHandler) emailUnique(excludeID string) validation.UniqueFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return h.service.EmailTaken(ctx, value, excludeID)
	}
}
