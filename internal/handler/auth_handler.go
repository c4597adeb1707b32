// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/internauth/internal/auth"
)

// maxRequestBodyBytes はリクエストボディの上限。
const maxRequestBodyBytes = 1 << 20

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Signup(ctx context.Context, req auth.SignupRequest) error
	Login(ctx context.Context, req auth.LoginRequest) (string, error)
	GoogleLogin(ctx context.Context, idToken string) (*auth.GoogleLoginResult, error)
	UpdateInternID(ctx context.Context, req auth.UpdateInternIDRequest) (*auth.UpsertResult, error)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// googleLoginResponse は新規ユーザーならisNewUserとemail、既存ユーザーならtokenを返す。
type googleLoginResponse struct {
	Token     string `json:"token,omitempty"`
	IsNewUser bool   `json:"isNewUser"`
	Email     string `json:"email,omitempty"`
}

// Signup はインターンアカウントを登録する。
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[auth.SignupRequest](w, r)

	if err := h.service.Signup(r.Context(), req); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Intern registered successfully!"})
}

// Login はメールアドレスとパスワードでログインする。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[auth.LoginRequest](w, r)

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GoogleLogin はGoogle IDトークンでログインする。
// POST /api/auth/google-login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[googleLoginRequest](w, r)

	result, err := h.service.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if result.IsNewUser {
		writeJSON(w, http.StatusOK, googleLoginResponse{IsNewUser: true, Email: result.Email})
		return
	}
	writeJSON(w, http.StatusOK, googleLoginResponse{Token: result.Token, IsNewUser: false})
}

// UpdateInternID はインターンIDと氏名を登録・更新する。
// POST /api/auth/update-intern-id
func (h *AuthHandler) UpdateInternID(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[auth.UpdateInternIDRequest](w, r)

	result, err := h.service.UpdateInternID(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

// decodeBody はJSONボディをTにデコードする。
// 不正なJSONは空のリクエストとして扱い、後続の必須チェックに委ねる。
func decodeBody[T any](w http.ResponseWriter, r *http.Request) T {
	var v T
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		if !errors.Is(err, io.EOF) {
			slog.Debug("ignoring malformed request body",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		var zero T
		return zero
	}
	return v
}
