package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/accountd/internal/model"
	"github.com/hitoshi/accountd/internal/validation"
)

// userResponse はAPIレスポンス用のユーザー表現。
// password_hashは決して含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeValidationErrors は422のバリデーションエラーレスポンスを書き込む。
// message/errorsの形式はAPI契約の一部。
func writeValidationErrors(w http.ResponseWriter, errs *validation.Errors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": errs.Message(),
		"errors":  errs.Fields(),
	})
}

// writeBadRequest はリクエストボディ不正の統一レスポンスを書き込む。
func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"status":  false,
		"message": "Invalid request body",
	})
}

// writeUnauthorized は401の統一レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"status":  false,
		"message": "Unauthorized",
	})
}

// writeUserNotFound は404の統一レスポンスを書き込む。
func writeUserNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"message": "User not found",
	})
}

// writeInternalServerError は500の統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func writeInternalServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"status":  false,
		"message": "Internal server error",
	})
}
