package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultGoogleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Googleが発行するIDトークンのiss
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// IdentityClaims は検証済みIDトークンから取り出したクレーム。
type IdentityClaims struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
}

// IdentityVerifier は外部IdPが発行したIDトークンを検証するインターフェース。
type IdentityVerifier interface {
	// Verify はIDトークンを検証し、クレームを返す。検証に失敗した場合はエラーを返す。
	Verify(ctx context.Context, idToken string) (*IdentityClaims, error)
}

// GoogleVerifierConfig はGoogle IDトークン検証の設定。
type GoogleVerifierConfig struct {
	ClientID string

	// テスト用にオーバーライド可能なURL
	TokenInfoURL string
	HTTPClient   *http.Client
}

// GoogleVerifier はGoogleのtokeninfoエンドポイントでIDトークンを検証する。
type GoogleVerifier struct {
	config GoogleVerifierConfig
	now    func() time.Time
}

// NewGoogleVerifier はGoogleVerifierを生成する。
func NewGoogleVerifier(config GoogleVerifierConfig) *GoogleVerifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultGoogleTokenInfoURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleVerifier{config: config, now: time.Now}
}

// googleTokenInfo はtokeninfoエンドポイントのレスポンス。
// 数値・真偽値も文字列で返される。
type googleTokenInfo struct {
	Iss           string `json:"iss"`
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Exp           string `json:"exp"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Verify はIDトークンをGoogleに問い合わせて検証する。
// aud、iss、expを確認し、メールアドレスを含むクレームを返す。
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*IdentityClaims, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("empty id token")
	}

	info, err := v.fetchTokenInfo(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if info.Aud != v.config.ClientID {
		return nil, fmt.Errorf("token audience mismatch: %q", info.Aud)
	}
	if !googleIssuers[info.Iss] {
		return nil, fmt.Errorf("unexpected token issuer: %q", info.Iss)
	}

	exp, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if !v.now().Before(time.Unix(exp, 0)) {
		return nil, fmt.Errorf("token expired at %d", exp)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("email claim missing")
	}
	if info.EmailVerified == "false" {
		return nil, fmt.Errorf("email not verified")
	}

	return &IdentityClaims{
		Subject:    info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}

// fetchTokenInfo はtokeninfoエンドポイントを呼び出す。
func (v *GoogleVerifier) fetchTokenInfo(ctx context.Context, idToken string) (*googleTokenInfo, error) {
	reqURL := v.config.TokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := v.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	return &info, nil
}

// compile-time interface check
var _ IdentityVerifier = (*GoogleVerifier)(nil)
