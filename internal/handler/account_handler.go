package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/internauth/internal/middleware"
	"github.com/hitoshi/internauth/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	CurrentAccount(ctx context.Context, accountID string) (*model.Account, error)
}

// AccountHandler はアカウント情報のHTTPハンドラー。
type AccountHandler struct {
	service AccountServiceInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// accountResponse はアカウント情報のレスポンス。パスワードハッシュは含めない。
type accountResponse struct {
	ID        string `json:"id"`
	InternID  string `json:"internId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Me はトークンで識別されるアカウントの情報を返す。
// GET /api/accounts/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.AccountIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	account, err := h.service.CurrentAccount(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		ID:        account.ID,
		InternID:  account.InternID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	})
}
