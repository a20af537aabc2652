package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/permithq/tenantgate/fga"
)

type fgaTupleWriteRequest struct {
	StoreID              string         `json:"store_id"`
	TupleKeys            []fga.TupleKey `json:"tuple_keys"`
	AuthorizationModelID string         `json:"authorization_model_id,omitempty"`
}

type fgaTupleReadRequest struct {
	StoreID           string        `json:"store_id"`
	TupleKey          *fga.TupleKey `json:"tuple_key,omitempty"`
	PageSize          int32         `json:"page_size,omitempty"`
	ContinuationToken string        `json:"continuation_token,omitempty"`
}

type fgaModelWriteRequest struct {
	StoreID string                 `json:"store_id"`
	Model   fga.AuthorizationModel `json:"authorization_model"`
}

func (s *Server) fgaUnavailable(w http.ResponseWriter) bool {
	if s.fgaClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "authorization service not configured"})
		return true
	}
	return false
}

func (s *Server) FGAListStoresHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}
		stores, err := s.fgaClient.ListStores(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("fga list stores failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, stores)
	})
}

func (s *Server) FGAWriteTuplesHandler() http.Handler {
	return s.fgaTupleMutationHandler(false)
}

func (s *Server) FGADeleteTuplesHandler() http.Handler {
	return s.fgaTupleMutationHandler(true)
}

func (s *Server) fgaTupleMutationHandler(deletes bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaTupleWriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" || len(req.TupleKeys) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id and tuple_keys are required"})
			return
		}

		upstream := fga.WriteTuplesRequest{AuthorizationModelID: req.AuthorizationModelID}
		if deletes {
			upstream.Deletes = req.TupleKeys
		} else {
			upstream.Writes = req.TupleKeys
		}

		if err := s.fgaClient.WriteTuples(r.Context(), req.StoreID, upstream); err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga tuple write failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	})
}

func (s *Server) FGAReadTuplesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaTupleReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
			return
		}

		tuples, err := s.fgaClient.ReadTuples(r.Context(), req.StoreID, fga.ReadTuplesRequest{
			TupleKey:          req.TupleKey,
			PageSize:          req.PageSize,
			ContinuationToken: req.ContinuationToken,
		})
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga tuple read failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, tuples)
	})
}

func (s *Server) FGAReadModelHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		storeID := r.URL.Query().Get("store_id")
		modelID := r.URL.Query().Get("authorization_model_id")
		if storeID == "" || modelID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id and authorization_model_id are required"})
			return
		}

		model, err := s.fgaClient.ReadAuthorizationModel(r.Context(), storeID, modelID)
		if err != nil {
			log.Error().Err(err).Str("store_id", storeID).Msg("fga model read failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, model)
	})
}

func (s *Server) FGAWriteModelHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaModelWriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
			return
		}

		resp, err := s.fgaClient.WriteAuthorizationModel(r.Context(), req.StoreID, req.Model)
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga model write failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

type fgaCheckRequest struct {
	StoreID              string       `json:"store_id"`
	TupleKey             fga.TupleKey `json:"tuple_key"`
	AuthorizationModelID string       `json:"authorization_model_id,omitempty"`
}

type fgaBatchCheckRequest struct {
	StoreID              string               `json:"store_id"`
	Checks               []fga.BatchCheckItem `json:"checks"`
	AuthorizationModelID string               `json:"authorization_model_id,omitempty"`
}

type fgaExpandRequest struct {
	StoreID              string             `json:"store_id"`
	TupleKey             fga.ObjectRelation `json:"tuple_key"`
	AuthorizationModelID string             `json:"authorization_model_id,omitempty"`
}

type fgaListUsersRequest struct {
	StoreID              string               `json:"store_id"`
	Object               fga.ObjectRef        `json:"object"`
	Relation             string               `json:"relation"`
	UserFilters          []fga.UserTypeFilter `json:"user_filters"`
	AuthorizationModelID string               `json:"authorization_model_id,omitempty"`
}

func (s *Server) FGACheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
			return
		}

		resp, err := s.fgaClient.Check(r.Context(), req.StoreID, fga.CheckRequest{
			TupleKey:             req.TupleKey,
			AuthorizationModelID: req.AuthorizationModelID,
		})
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga check failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func (s *Server) FGABatchCheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaBatchCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" || len(req.Checks) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id and checks are required"})
			return
		}

		resp, err := s.fgaClient.BatchCheck(r.Context(), req.StoreID, fga.BatchCheckRequest{
			Checks:               req.Checks,
			AuthorizationModelID: req.AuthorizationModelID,
		})
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga batch check failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func (s *Server) FGAExpandHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaExpandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
			return
		}

		resp, err := s.fgaClient.Expand(r.Context(), req.StoreID, fga.ExpandRequest{
			TupleKey:             req.TupleKey,
			AuthorizationModelID: req.AuthorizationModelID,
		})
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga expand failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func (s *Server) FGAListUsersHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fgaUnavailable(w) {
			return
		}

		var req fgaListUsersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.StoreID == "" || req.Relation == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id and relation are required"})
			return
		}

		resp, err := s.fgaClient.ListUsers(r.Context(), req.StoreID, fga.ListUsersRequest{
			Object:               req.Object,
			Relation:             req.Relation,
			UserFilters:          req.UserFilters,
			AuthorizationModelID: req.AuthorizationModelID,
		})
		if err != nil {
			log.Error().Err(err).Str("store_id", req.StoreID).Msg("fga list users failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "authorization service error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
