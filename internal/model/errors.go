// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, auth, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// エラーカテゴリ
const (
	CategoryValidation = "validation"
	CategoryAuth       = "auth"
	CategorySystem     = "system"
)

// 定義済みエラーコード
const (
	ErrCodeFieldsRequired      = "FIELDS_REQUIRED"
	ErrCodeCredentialsRequired = "CREDENTIALS_REQUIRED"
	ErrCodeInvalidEmailFormat  = "INVALID_EMAIL_FORMAT"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeGoogleLoginFailed   = "GOOGLE_LOGIN_FAILED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeSignupFailed        = "SIGNUP_FAILED"
	ErrCodeLoginFailed         = "LOGIN_FAILED"
	ErrCodeUpdateFailed        = "UPDATE_FAILED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewFieldsRequiredError は必須項目不足エラーを生成する。
func NewFieldsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeFieldsRequired,
		Message:  "All fields are required",
		Category: CategoryValidation,
		Action:   "すべての項目を入力してください。",
	}
}

// NewCredentialsRequiredError はログイン時のメールアドレス・パスワード不足エラーを生成する。
func NewCredentialsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeCredentialsRequired,
		Message:  "Email and password are required",
		Category: CategoryValidation,
		Action:   "メールアドレスとパスワードを入力してください。",
	}
}

// NewInvalidEmailFormatError はメールアドレス形式エラーを生成する。
func NewInvalidEmailFormatError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmailFormat,
		Message:  "Invalid email format",
		Category: CategoryValidation,
		Action:   "name@example.com の形式でメールアドレスを入力してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// アカウント未登録とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid credentials",
		Category: CategoryAuth,
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewGoogleLoginFailedError はGoogleログイン失敗エラーを生成する。
func NewGoogleLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeGoogleLoginFailed,
		Message:  "Google login failed",
		Category: CategoryAuth,
		Action:   "もう一度Googleでログインしてください。",
	}
}

// NewUnauthorizedError は認証トークン不正エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: CategoryAuth,
		Action:   "ログインし直してください。",
	}
}

// NewAccountNotFoundError はアカウントが見つからない場合のエラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "Account not found",
		Category: CategoryAuth,
		Action:   "ログインし直してください。",
	}
}

// NewSignupFailedError はサインアップ時の内部エラーを生成する。
// 重複メールアドレスもこのエラーとして返す。
func NewSignupFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSignupFailed,
		Message:  "Internal server error during signup",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewLoginFailedError はログイン時の内部エラーを生成する。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "Internal server error during login",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUpdateFailedError はインターン情報更新時の内部エラーを生成する。
func NewUpdateFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeUpdateFailed,
		Message:  "Failed to update intern details",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInternalError は汎用の内部エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}
