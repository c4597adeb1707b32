package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// newTokenInfoServer はtokeninfoエンドポイントを模したテストサーバーを返す。
func newTokenInfoServer(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("id_token query parameter missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func validTokenInfo(exp time.Time) map[string]string {
	return map[string]string{
		"iss":            "https://accounts.google.com",
		"aud":            "test-client-id",
		"sub":            "google-sub-12345",
		"exp":            strconv.FormatInt(exp.Unix(), 10),
		"email":          "user@gmail.com",
		"email_verified": "true",
		"name":           "Google User",
		"given_name":     "Google",
		"family_name":    "User",
	}
}

func newTestVerifier(url string) *GoogleVerifier {
	return NewGoogleVerifier(GoogleVerifierConfig{
		ClientID:     "test-client-id",
		TokenInfoURL: url,
	})
}

func TestGoogleVerifier_Verify_Success(t *testing.T) {
	srv := newTokenInfoServer(t, http.StatusOK, validTokenInfo(time.Now().Add(time.Hour)))
	v := newTestVerifier(srv.URL)

	claims, err := v.Verify(context.Background(), "valid-id-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "user@gmail.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Subject != "google-sub-12345" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.GivenName != "Google" || claims.FamilyName != "User" {
		t.Errorf("names = %q %q", claims.GivenName, claims.FamilyName)
	}
}

func TestGoogleVerifier_Verify_Rejects(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		status int
		mutate func(m map[string]string)
	}{
		{"audience mismatch", http.StatusOK, func(m map[string]string) { m["aud"] = "other-client" }},
		{"wrong issuer", http.StatusOK, func(m map[string]string) { m["iss"] = "https://evil.example.com" }},
		{"expired", http.StatusOK, func(m map[string]string) {
			m["exp"] = strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)
		}},
		{"malformed exp", http.StatusOK, func(m map[string]string) { m["exp"] = "soon" }},
		{"missing email", http.StatusOK, func(m map[string]string) { delete(m, "email") }},
		{"unverified email", http.StatusOK, func(m map[string]string) { m["email_verified"] = "false" }},
		{"google rejects token", http.StatusBadRequest, func(map[string]string) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validTokenInfo(future)
			tt.mutate(body)
			srv := newTokenInfoServer(t, tt.status, body)

			if _, err := newTestVerifier(srv.URL).Verify(context.Background(), "id-token"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGoogleVerifier_Verify_EmailVerifiedClaim(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		present bool
		wantErr bool
	}{
		{"verified", "true", true, false},
		{"explicitly unverified", "false", true, true},
		{"claim absent", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validTokenInfo(time.Now().Add(time.Hour))
			if tt.present {
				body["email_verified"] = tt.value
			} else {
				delete(body, "email_verified")
			}
			srv := newTokenInfoServer(t, http.StatusOK, body)

			claims, err := newTestVerifier(srv.URL).Verify(context.Background(), "id-token")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && claims != nil {
				t.Error("claims must be nil for an unverified email")
			}
		})
	}
}

func TestGoogleVerifier_Verify_AcceptsBareIssuer(t *testing.T) {
	body := validTokenInfo(time.Now().Add(time.Hour))
	body["iss"] = "accounts.google.com"
	srv := newTokenInfoServer(t, http.StatusOK, body)

	if _, err := newTestVerifier(srv.URL).Verify(context.Background(), "id-token"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGoogleVerifier_Verify_EmptyToken_SkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	if _, err := newTestVerifier(srv.URL).Verify(context.Background(), "  "); err == nil {
		t.Error("expected error for empty token")
	}
	if called {
		t.Error("tokeninfo should not be called for an empty token")
	}
}

func TestGoogleVerifier_Verify_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	if _, err := newTestVerifier(srv.URL).Verify(context.Background(), "id-token"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNewGoogleVerifier_Defaults(t *testing.T) {
	v := NewGoogleVerifier(GoogleVerifierConfig{ClientID: "id"})

	if v.config.TokenInfoURL != defaultGoogleTokenInfoURL {
		t.Errorf("TokenInfoURL = %q", v.config.TokenInfoURL)
	}
	if v.config.HTTPClient == nil {
		t.Error("expected default HTTP client")
	}
}
