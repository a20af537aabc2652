package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/sessions"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

// writeError maps internal errors onto HTTP responses. State validation
// failures are reported to the client with a single generic message so that
// the response does not reveal which check failed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case isStateError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid or expired login attempt"})
	case internalerrors.Is(err, authn.TokenExchangeFailedErr), internalerrors.Is(err, internalerrors.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream identity provider error"})
	case internalerrors.Is(err, authn.MissingIdentityTokenErr), internalerrors.Is(err, authn.IdentityTokenInvalidErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "identity token rejected"})
	case internalerrors.Is(err, internalerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case internalerrors.Is(err, internalerrors.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case internalerrors.Is(err, sessions.InvalidCookieErr), internalerrors.Is(err, sessions.SessionNotFoundErr):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func isStateError(err error) bool {
	stateErrs := []error{
		authn.DecodeErr,
		authn.InvalidSignatureErr,
		authn.InvalidStateErr,
		authn.StateNotFoundErr,
		authn.StateExpiredErr,
		authn.ContextMismatchErr,
		authn.OrgMismatchErr,
		internalerrors.ErrState,
	}
	for _, target := range stateErrs {
		if internalerrors.Is(err, target) {
			return true
		}
	}
	return false
}
