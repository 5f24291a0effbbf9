// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/accountd/internal/middleware"
	"github.com/hitoshi/accountd/internal/model"
	"github.com/hitoshi/accountd/internal/validation"
)

// AccountServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

// TokenServiceInterface は認証ハンドラーが必要とするトークン操作インターフェース。
type TokenServiceInterface interface {
	Issue(userID string) (string, int, error)
	Refresh(token string) (string, int, error)
	Revoke(token string) error
}

// AuthHandler は登録・ログイン・プロフィール・トークン更新・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	accounts AccountServiceInterface
	tokens   TokenServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(accounts AccountServiceInterface, tokens TokenServiceInterface) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
	}
}

// registerRequest はPOST /registerのリクエストボディ。
type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register は新規ユーザーを登録する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	v := validation.New(
		validation.Rule{Field: "name", Required: true},
		validation.Rule{Field: "email", Required: true, Email: true, Unique: h.emailUnique("")},
		validation.Rule{Field: "password", Required: true, ConfirmedBy: "password_confirmation"},
	)
	errs, err := v.Validate(r.Context(), map[string]string{
		"name":                  req.Name,
		"email":                 req.Email,
		"password":              req.Password,
		"password_confirmation": req.PasswordConfirmation,
	})
	if err != nil {
		slog.Error("registration validation failed", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}
	if errs.Any() {
		writeValidationErrors(w, errs)
		return
	}

	if _, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		// 事前チェックと書き込みの間に同一emailが登録された場合
		if errors.Is(err, model.ErrDuplicateEmail) {
			writeValidationErrors(w, duplicateEmailErrors())
			return
		}
		slog.Error("failed to register user", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "User registered successfully",
		"data":    []any{},
	})
}

// loginRequest はPOST /loginのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login は認証情報を検証し、ベアラートークンを発行する。
// 認証失敗は従来仕様に合わせて200でstatus:falseを返す。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	v := validation.New(
		validation.Rule{Field: "email", Required: true, Email: true},
		validation.Rule{Field: "password", Required: true},
	)
	errs, err := v.Validate(r.Context(), map[string]string{
		"email":    req.Email,
		"password": req.Password,
	})
	if err != nil {
		writeInternalServerError(w)
		return
	}
	if errs.Any() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  false,
				"message": "Invalid login details",
			})
			return
		}
		slog.Error("failed to authenticate user", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	token, expiresIn, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue token", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     true,
		"message":    "User logged in",
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Profile は認証済みユーザーのプロフィールを返す。
// GET /profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	user, err := h.accounts.Get(r.Context(), userID)
	if err != nil {
		// トークン発行後にユーザーが消えた場合も認可エラーとして扱う
		if errors.Is(err, model.ErrUserNotFound) {
			writeUnauthorized(w)
			return
		}
		slog.Error("failed to load profile", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Profile data",
		"user":    toUserResponse(user),
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// RefreshToken は提示された有効なトークンに対して新しいトークンを発行する。
// 提示トークン自体は失効しない。
// GET /refresh-token
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerTokenFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	newToken, expiresIn, err := h.tokens.Refresh(token)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     true,
		"message":    "Refresh token",
		"token":      newToken,
		"expires_in": expiresIn,
	})
}

// Logout はログアウトの確認応答を返す。
// トークンはステートレスのため、サーバー側の失効は行わない。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerTokenFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.tokens.Revoke(token); err != nil {
		writeUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "User logged out",
	})
}

// emailUnique はアカウントサービスに委譲する一意性チェック関数を返す。
func (h *AuthHandler) emailUnique(excludeID string) validation.UniqueFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return h.accounts.EmailTaken(ctx, value, excludeID)
	}
}

// duplicateEmailErrors は書き込み時に検出されたemail重複のエラーマップを生成する。
func duplicateEmailErrors() *validation.Errors {
	return validation.NewFieldErrors("email", "The email has already been taken.")
}
