// Package model はドメインモデルを定義する。
package model

import "time"

// Account はインターンのアカウントを表す。
// Emailがストア内での一意キーとなる。
type Account struct {
	ID        string
	InternID  string
	FirstName string
	LastName  string
	Email     string
	// PasswordHash はGoogleログイン経由で作成されたアカウントでは空になる。
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword はパスワードが設定済みかどうかを返す。
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// UpsertKind はupdateInternIdでどちらの分岐を通ったかを表す。
type UpsertKind string

const (
	// UpsertCreated はアカウントが存在せず新規作成したことを示す。
	UpsertCreated UpsertKind = "created"
	// UpsertOverwritten は既存アカウントのフィールドを上書きしたことを示す。
	UpsertOverwritten UpsertKind = "overwritten"
)
