// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/internauth/internal/model"
)

// ErrDuplicateEmail はemailの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("account with this email already exists")

// AccountRepository はアカウントデータの永続化インターフェース。
// emailはトリム済みの値で渡されることを前提とする。
type AccountRepository interface {
	// FindByEmail はemailでアカウントを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// Create はアカウントを作成する。
	// emailが既に存在する場合はErrDuplicateEmailをラップしたエラーを返す。
	Create(ctx context.Context, account *model.Account) error

	// Update はintern_id、first_name、last_nameを上書きする。
	// password_hashとemailは変更しない。
	Update(ctx context.Context, account *model.Account) error
}

// HealthChecker はストアの疎通確認インターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}
