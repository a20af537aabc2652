package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// MeHandler returns the authenticated user's profile. Token material is
// excluded from the serialized form.
func (s *Server) MeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(ContextUserID).(string)
		if !ok || userID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		user, err := s.repos.Users.FindByID(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Msg("failed to load user")
			writeError(w, err)
			return
		}
		if user == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}

		writeJSON(w, http.StatusOK, user)
	})
}
