// Package auth はアカウント認証フロー（サインアップ、パスワードログイン、
// Googleログイン、インターンID更新）を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/internauth/internal/metrics"
	"github.com/hitoshi/internauth/internal/model"
	"github.com/hitoshi/internauth/internal/repository"
	"github.com/hitoshi/internauth/internal/security"
)

// PasswordHasher はパスワードのハッシュ化と照合のインターフェース。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string)
}

// TokenIssuer はセッショントークン発行のインターフェース。
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

// GoogleLoginResult はGoogleログインの結果。
// IsNewUserがtrueの場合はTokenを発行せず、Emailを返す。
type GoogleLoginResult struct {
	IsNewUser bool
	Email     string
	Token     string
}

// UpsertResult はインターンID更新の結果。
type UpsertResult struct {
	Token     string
	AccountID string
	Kind      model.UpsertKind
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	verifier IdentityVerifier
	metrics  metrics.MetricsCollector
	validate *validator.Validate
	now      func() time.Time
}

// NewService はServiceを生成する。collectorがnilの場合はメトリクスを記録しない。
func NewService(
	accounts repository.AccountRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	verifier IdentityVerifier,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		verifier: verifier,
		metrics:  collector,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Signup はパスワード付きのアカウントを作成する。トークンは発行しない。
// 既存メールアドレスの事前確認は行わず、一意制約違反も内部エラーとして返す。
func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	rawEmail := req.Email
	req.normalize()
	err := s.validate.Struct(req)
	if err == nil {
		// 形式チェックはトリム前の値で行う。前後に空白があれば不正とする。
		err = s.validate.Var(rawEmail, "internemail")
	}
	if err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationSignup, metrics.OutcomeValidationError)
		return toValidationError(err, model.NewFieldsRequiredError())
	}

	start := s.now()
	hash, err := s.hasher.Hash(req.Password)
	s.metrics.RecordHashLatency(s.now().Sub(start))
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		s.metrics.RecordAuthOutcome(metrics.OperationSignup, metrics.OutcomeInternalError)
		return model.NewSignupFailedError()
	}

	now := s.now()
	account := &model.Account{
		ID:           uuid.New().String(),
		InternID:     string(req.InternID),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			slog.Warn("signup rejected: email already registered", slog.String("email", req.Email))
		} else {
			slog.Error("failed to create account", slog.String("error", err.Error()))
		}
		s.metrics.RecordAuthOutcome(metrics.OperationSignup, metrics.OutcomeInternalError)
		return model.NewSignupFailedError()
	}

	slog.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("intern_id", account.InternID),
	)
	s.metrics.RecordAuthOutcome(metrics.OperationSignup, metrics.OutcomeSuccess)
	return nil
}

// Login はメールアドレスとパスワードを照合し、セッショントークンを返す。
// アカウント未登録とパスワード不一致は同じエラーを返す。
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	req.normalize()
	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeValidationError)
		return "", toValidationError(err, model.NewCredentialsRequiredError())
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("failed to find account for login", slog.String("error", err.Error()))
		s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeInternalError)
		return "", model.NewLoginFailedError()
	}

	if account == nil || !account.HasPassword() {
		s.hasher.CompareDummy(req.Password)
		s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeAuthError)
		return "", model.NewInvalidCredentialsError()
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, security.ErrPasswordMismatch) {
			slog.Warn("stored password hash could not be compared",
				slog.String("account_id", account.ID),
				slog.String("error", err.Error()),
			)
		}
		s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeAuthError)
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeInternalError)
		return "", model.NewLoginFailedError()
	}

	slog.Info("account logged in",
		slog.String("account_id", account.ID),
		slog.String("method", "password"),
	)
	s.metrics.RecordAuthOutcome(metrics.OperationLogin, metrics.OutcomeSuccess)
	return token, nil
}

// GoogleLogin はGoogle IDトークンを検証し、既存アカウントならトークンを発行する。
// 未登録の場合はアカウントを作成せず、IsNewUserとメールアドレスを返す。
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*GoogleLoginResult, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		slog.Warn("google id token verification failed", slog.String("error", err.Error()))
		s.metrics.RecordAuthOutcome(metrics.OperationGoogleLogin, metrics.OutcomeAuthError)
		return nil, model.NewGoogleLoginFailedError()
	}

	email := strings.TrimSpace(claims.Email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		slog.Error("failed to find account for google login", slog.String("error", err.Error()))
		s.metrics.RecordAuthOutcome(metrics.OperationGoogleLogin, metrics.OutcomeInternalError)
		return nil, model.NewGoogleLoginFailedError()
	}

	if account == nil {
		slog.Info("google login for unregistered email", slog.String("email", email))
		s.metrics.RecordAuthOutcome(metrics.OperationGoogleLogin, metrics.OutcomeNewUser)
		return &GoogleLoginResult{IsNewUser: true, Email: claims.Email}, nil
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationGoogleLogin, metrics.OutcomeInternalError)
		return nil, model.NewGoogleLoginFailedError()
	}

	slog.Info("account logged in",
		slog.String("account_id", account.ID),
		slog.String("method", "google"),
	)
	s.metrics.RecordAuthOutcome(metrics.OperationGoogleLogin, metrics.OutcomeSuccess)
	return &GoogleLoginResult{IsNewUser: false, Token: token}, nil
}

// UpdateInternID はメールアドレスでアカウントを検索し、未登録ならパスワードなしで作成、
// 登録済みならインターンIDと氏名を上書きする。どちらの場合もトークンを返す。
func (s *Service) UpdateInternID(ctx context.Context, req UpdateInternIDRequest) (*UpsertResult, error) {
	req.normalize()
	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationUpdateInternID, metrics.OutcomeValidationError)
		return nil, toValidationError(err, model.NewFieldsRequiredError())
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("failed to find account for update", slog.String("error", err.Error()))
		s.metrics.RecordAuthOutcome(metrics.OperationUpdateInternID, metrics.OutcomeInternalError)
		return nil, model.NewUpdateFailedError()
	}

	now := s.now()
	var kind model.UpsertKind

	if account == nil {
		account = &model.Account{
			ID:        uuid.New().String(),
			InternID:  string(req.InternID),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = s.accounts.Create(ctx, account)
		kind = model.UpsertCreated
	} else {
		account.InternID = string(req.InternID)
		account.FirstName = req.FirstName
		account.LastName = req.LastName
		account.UpdatedAt = now
		err = s.accounts.Update(ctx, account)
		kind = model.UpsertOverwritten
	}
	if err != nil {
		slog.Error("failed to update intern details",
			slog.String("email", req.Email),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordAuthOutcome(metrics.OperationUpdateInternID, metrics.OutcomeInternalError)
		return nil, model.NewUpdateFailedError()
	}
	s.metrics.RecordAccountUpsert(string(kind))

	token, err := s.issueToken(account.ID)
	if err != nil {
		s.metrics.RecordAuthOutcome(metrics.OperationUpdateInternID, metrics.OutcomeInternalError)
		return nil, model.NewUpdateFailedError()
	}

	slog.Info("intern details saved",
		slog.String("account_id", account.ID),
		slog.String("intern_id", account.InternID),
		slog.String("kind", string(kind)),
	)
	s.metrics.RecordAuthOutcome(metrics.OperationUpdateInternID, metrics.OutcomeSuccess)
	return &UpsertResult{Token: token, AccountID: account.ID, Kind: kind}, nil
}

// CurrentAccount はトークンから取り出したアカウントIDでアカウントを取得する。
func (s *Service) CurrentAccount(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError()
	}
	return account, nil
}

// issueToken はセッショントークンを発行する。
func (s *Service) issueToken(accountID string) (string, error) {
	token, err := s.tokens.Issue(accountID)
	if err != nil {
		slog.Error("failed to issue session token",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
		return "", err
	}
	s.metrics.RecordTokenIssued()
	return token, nil
}
