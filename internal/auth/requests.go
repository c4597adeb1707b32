package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/internauth/internal/model"
)

// emailPattern はサインアップ時に受け付けるメールアドレス形式。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// FlexString はJSONの文字列・数値のどちらも文字列として受け取る。
// インターンIDは数値で送られてくることがある。
type FlexString string

// UnmarshalJSON は文字列・数値を受け付け、nullは空文字として扱う。
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) trimmed() FlexString {
	return FlexString(strings.TrimSpace(string(f)))
}

// SignupRequest はパスワードによるサインアップの入力。
type SignupRequest struct {
	InternID  FlexString `json:"internID" validate:"required"`
	FirstName string     `json:"firstName" validate:"required"`
	LastName  string     `json:"lastName" validate:"required"`
	Email     string     `json:"email" validate:"required"`
	Password  string     `json:"password" validate:"required"`
}

// LoginRequest はパスワードログインの入力。
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateInternIDRequest はインターンID更新（未登録なら作成）の入力。
type UpdateInternIDRequest struct {
	Email     string     `json:"email" validate:"required"`
	InternID  FlexString `json:"internId" validate:"required"`
	FirstName string     `json:"firstName" validate:"required"`
	LastName  string     `json:"lastName" validate:"required"`
}

// normalize は文字列フィールドをトリムする。パスワードはそのまま扱う。
func (r *SignupRequest) normalize() {
	r.InternID = r.InternID.trimmed()
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *LoginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *UpdateInternIDRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.InternID = r.InternID.trimmed()
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// newValidator はinternemailタグを登録したvalidatorを生成する。
// internemailはトリム前のメールアドレスに対して使う。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("internemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// toValidationError はvalidatorのエラーを入力エラーに変換する。
// 必須項目の不足を形式エラーより優先する。
func toValidationError(err error, requiredErr *model.APIError) *model.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return requiredErr
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return requiredErr
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "internemail" {
			return model.NewInvalidEmailFormatError()
		}
	}
	return requiredErr
}
