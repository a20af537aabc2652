package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/permithq/tenantgate/authn"
)

type loginWithRequest struct {
	ReturnURL string `json:"return_url"`
}

type loginWithResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

// LoginHandler starts the login flow for browser navigation. It resolves the
// tenant from the host, builds an upstream authorize URL and redirects.
func (s *Server) LoginHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		org, err := s.orgFromHost(r)
		if err != nil {
			log.Warn().Err(err).Str("host", r.Host).Msg("login request for unknown tenant")
			writeError(w, err)
			return
		}

		authorizeURL, err := s.builder.BuildAuthorizeURL(r.Context(), authn.AuthorizeRequest{
			Dex:       s.dex,
			Org:       org,
			ReturnURL: r.URL.Query().Get("return_url"),
			ClientIP:  clientIP(r),
			UserAgent: userAgent(r),
		})
		if err != nil {
			log.Error().Err(err).Str("org_id", org.OrgID).Msg("failed to build authorize URL")
			writeError(w, err)
			return
		}

		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}

// LoginWithHandler is the API variant of login. Instead of redirecting it
// returns the authorize URL for the caller to navigate to.
func (s *Server) LoginWithHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		org, err := s.orgFromHost(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req loginWithRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		authorizeURL, err := s.builder.BuildAuthorizeURL(r.Context(), authn.AuthorizeRequest{
			Dex:       s.dex,
			Org:       org,
			ReturnURL: req.ReturnURL,
			ClientIP:  clientIP(r),
			UserAgent: userAgent(r),
		})
		if err != nil {
			log.Error().Err(err).Str("org_id", org.OrgID).Msg("failed to build authorize URL")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginWithResponse{AuthorizeURL: authorizeURL})
	})
}
