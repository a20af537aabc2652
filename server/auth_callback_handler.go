package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/permithq/tenantgate/sessions"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
)

const defaultReturnURL = "/dashboard"

// OAuthCallbackHandler completes the login flow. The upstream provider
// redirects here with code and state; we validate the state against the
// stored login attempt, exchange the code, issue a session and redirect
// the browser back to where it started.
//
// The stored state is invalidated only after the full exchange succeeds,
// so a transient upstream failure can be retried within the state's TTL.
func (s *Server) OAuthCallbackHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		org, err := s.orgFromHost(r)
		if err != nil {
			log.Warn().Err(err).Str("host", r.Host).Msg("callback for unknown tenant")
			writeError(w, err)
			return
		}

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
				return
			}
		}

		query := callbackParams(r)

		if providerErr := query.Get("error"); providerErr != "" {
			log.Warn().
				Str("org_id", org.OrgID).
				Str("error", providerErr).
				Str("error_description", query.Get("error_description")).
				Msg("provider returned an error on callback")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream identity provider error"})
			return
		}

		code := query.Get("code")
		stateParam := query.Get("state")
		if code == "" || stateParam == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid or expired login attempt"})
			return
		}

		state, err := s.builder.RetrieveAuthState(ctx, stateParam, org, clientIP(r), userAgent(r))
		if err != nil {
			log.Warn().Err(err).Str("org_id", org.OrgID).Msg("state validation failed")
			writeError(w, err)
			return
		}

		tokens, claims, err := s.exchanger.Exchange(ctx, code, state.CodeVerifier, state.Nonce)
		if err != nil {
			log.Error().Err(err).Str("org_id", org.OrgID).Msg("token exchange failed")
			writeError(w, err)
			return
		}

		result, err := s.issuer.IssueSession(ctx, org, claims, tokens, clientIP(r), userAgent(r))
		if err != nil {
			log.Error().Err(err).Str("org_id", org.OrgID).Msg("failed to issue session")
			writeError(w, err)
			return
		}

		// Single use: the state is only consumed once a session exists.
		if err := s.builder.ConsumeAuthState(ctx, stateParam, org); err != nil {
			log.Warn().Err(err).Str("org_id", org.OrgID).Msg("failed to invalidate login state")
		}

		http.SetCookie(w, sessions.BuildCookie(result.Session.SessionID, org.SessionConfig))

		returnURL := state.ReturnURL
		if returnURL == "" {
			returnURL = defaultReturnURL
		}
		http.Redirect(w, r, returnURL, http.StatusFound)
	}
}

// callbackParams reads the provider response from the query string for GET
// callbacks and the form body for form_post callbacks.
func callbackParams(r *http.Request) interface{ Get(string) string } {
	if r.Method == http.MethodPost {
		return r.PostForm
	}
	return r.URL.Query()
}

// LogoutHandler invalidates the caller's session and clears the cookie.
// An unauthenticated logout is a no-op redirect rather than an error.
func (s *Server) LogoutHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		org, err := s.orgFromHost(r)
		if err != nil {
			writeError(w, err)
			return
		}

		cfg := org.SessionConfig
		if cookie, err := r.Cookie(cfg.CookieName); err == nil {
			sessionID, verifyErr := sessions.VerifyCookieValue(cookie.Value, cfg.CookieSigningSecret)
			if verifyErr == nil {
				if err := s.repos.Sessions.Invalidate(ctx, sessionID); err != nil && !internalerrors.Is(err, sessions.SessionNotFoundErr) {
					log.Error().Err(err).Str("org_id", org.OrgID).Msg("failed to invalidate session")
				}
			}
		}

		http.SetCookie(w, sessions.ClearCookie(cfg))
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
