package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/permithq/tenantgate/orgs"
)

var InvalidCookieErr = errors.New("invalid session cookie")

// SignSessionID builds the cookie value: the session id followed by a
// hex HMAC-SHA256 of it under the organization's cookie signing secret.
// The cookie secret rotates independently of the OAuth state secret.
func SignSessionID(sessionID, secret string) string {
	return sessionID + "." + sessionSignature(sessionID, secret)
}

// VerifyCookieValue splits the cookie on its last dot, recomputes the
// signature over the session id and rejects on mismatch.
func VerifyCookieValue(cookieValue, secret string) (string, error) {
	idx := strings.LastIndex(cookieValue, ".")
	if idx <= 0 || idx == len(cookieValue)-1 {
		return "", errors.Wrap(InvalidCookieErr, "[VerifyCookieValue] format")
	}

	sessionID := cookieValue[:idx]
	signature := cookieValue[idx+1:]

	expected := sessionSignature(sessionID, secret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", errors.Wrap(InvalidCookieErr, "[VerifyCookieValue] signature")
	}
	return sessionID, nil
}

func sessionSignature(sessionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildCookie assembles the http.Cookie per the organization's policy.
func BuildCookie(sessionID string, cfg orgs.SessionConfig) *http.Cookie {
	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    SignSessionID(sessionID, cfg.CookieSigningSecret),
		Path:     "/",
		HttpOnly: cfg.HTTPOnly,
		Secure:   cfg.Secure,
		MaxAge:   int(cfg.MaxAgeSeconds),
		SameSite: sameSiteMode(cfg.SameSite),
	}
	if cfg.CookieDomain != "" {
		cookie.Domain = cfg.CookieDomain
	}
	return cookie
}

// ClearCookie produces an expired cookie for logout.
func ClearCookie(cfg orgs.SessionConfig) *http.Cookie {
	cookie := BuildCookie("", cfg)
	cookie.Value = ""
	cookie.MaxAge = -1
	return cookie
}

func sameSiteMode(policy orgs.SameSitePolicy) http.SameSite {
	switch policy {
	case orgs.SameSiteStrict:
		return http.SameSiteStrictMode
	case orgs.SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
