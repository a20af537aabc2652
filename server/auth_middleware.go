package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ContextKey string

const (
	ContextUserID    ContextKey = "user_id"
	ContextOrgID     ContextKey = "org_id"
	ContextSessionID ContextKey = "session_id"
)

// RequireSessionAuth validates the session cookie for the request's tenant
// and stores the authenticated identity on the request context.
func (s *Server) RequireSessionAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			org, err := s.orgFromHost(r)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}

			cookie, err := r.Cookie(org.SessionConfig.CookieName)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}

			session, err := s.issuer.ValidateSession(r.Context(), org, cookie.Value)
			if err != nil {
				log.Debug().Err(err).Str("org_id", org.OrgID).Msg("session validation failed")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, session.UserID)
			ctx = context.WithValue(ctx, ContextOrgID, session.OrgID)
			ctx = context.WithValue(ctx, ContextSessionID, session.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
