package server

import (
	"net/http"
	"strings"

	"github.com/permithq/tenantgate/orgs"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
)

// clientIP extracts the originating client address, preferring proxy
// headers over the raw socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return stripPort(r.RemoteAddr)
}

func userAgent(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		return "unknown"
	}
	return ua
}

// orgFromHost resolves the tenant from the request's Host header. Hosts take
// the form <subdomain>.<base domain>; anything else is a validation error.
func (s *Server) orgFromHost(r *http.Request) (*orgs.OrgAuthConfig, error) {
	host := stripPort(r.Host)
	if host == "" {
		return nil, internalerrors.Wrapf(internalerrors.ErrValidation, "[orgFromHost] missing host header")
	}

	baseDomain := s.config.GetBaseDomain()
	suffix := "." + baseDomain
	if !strings.HasSuffix(host, suffix) {
		return nil, internalerrors.Wrapf(internalerrors.ErrValidation, "[orgFromHost] host %q not under base domain", host)
	}

	subdomain := strings.TrimSuffix(host, suffix)
	if subdomain == "" || strings.Contains(subdomain, ".") {
		return nil, internalerrors.Wrapf(internalerrors.ErrValidation, "[orgFromHost] host %q has no usable subdomain", host)
	}

	org, err := s.repos.Orgs.GetBySubdomain(r.Context(), subdomain)
	if err != nil {
		return nil, err
	}
	return org, nil
}
