package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/me/gowe/internal/store"
	"github.com/me/gowe/pkg/model"
)

const defaultRunsLimit = 20

type runListResponse struct {
	Runs  []*model.Run `json:"runs"`
	Total int          `json:"total"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts := store.ListOptions{Limit: defaultRunsLimit}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		s.logger.Error("list runs", "error", err)
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: "failed to list runs"})
		return
	}

	respondOK(w, reqID, runListResponse{Runs: runs, Total: total})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.respondRunLookupError(w, reqID, "run", id, err)
		return
	}

	respondOK(w, reqID, run)
}

func (s *Server) handleGetRunRejections(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.respondRunLookupError(w, reqID, "run", id, err)
		return
	}

	var groups []model.RejectionGroup
	if run.Report != nil {
		groups = run.Report.Rejections
	}
	respondOK(w, reqID, groups)
}

func (s *Server) respondRunLookupError(w http.ResponseWriter, reqID, resource, id string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError(resource, id))
		return
	}
	s.logger.Error("get run", "error", err, "run_id", id)
	respondError(w, reqID, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: "failed to load run"})
}
