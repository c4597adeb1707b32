// Package security はパスワードハッシュとセッショントークンを提供する。
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost はパスワードハッシュの既定ワークファクター。
const DefaultBcryptCost = 10

// ErrPasswordMismatch はパスワードがハッシュと一致しないことを表す。
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher はbcryptによるパスワードのハッシュ化と照合を行う。
// 平文パスワードをログや永続化に渡してはならない。
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher は指定コストのPasswordHasherを生成する。
// コストはbcryptの許容範囲に丸める。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	// 未登録メールアドレスでも同じ計算量で照合するためのダミーハッシュ
	dummy, err := bcrypt.GenerateFromPassword([]byte("internauth-dummy-password"), cost)
	if err != nil {
		panic("security: failed to build dummy hash: " + err.Error())
	}

	return &PasswordHasher{cost: cost, dummyHash: dummy}
}

// Cost は使用中のワークファクターを返す。
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash はソルト付きのbcryptハッシュを返す。
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare はpasswordがhashと一致すればnilを返す。
// 不一致の場合はErrPasswordMismatch、ハッシュ破損などはそのままのエラーを返す。
func (h *PasswordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// CompareDummy はダミーハッシュに対して照合を行い、結果を捨てる。
// アカウントが存在しない場合の応答時間を揃えるために使う。
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
