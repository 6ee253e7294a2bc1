package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/output"
	"github.com/aryankumar/sep/internal/util"
	"github.com/go-chi/chi/v5"
)

// BackgroundMessage is returned for pattern runs started with mode=async
const BackgroundMessage = "EXECUTING IN BACKGROUND"

// handleHealthChecks runs every probe, or the one named in the path, and
// renders the results as health text
func (s *Server) handleHealthChecks(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	results, err := s.opts.Runner.Run(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(output.HealthText(results))); err != nil {
		s.logger.Error("write health response", "error", err)
	}
}

// handlePattern runs a named execution pattern over the configured actions.
//
// Query parameters:
//   - retrymode=async: retries of invokewithretry run detached
//   - mode=async: invokewithretry runs in the background and the response
//     only acknowledges it
func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	pattern := chi.URLParam(r, "pattern")
	query := r.URL.Query()

	req, err := s.buildRequest(pattern, query.Get("retrymode") == "async")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if pattern == executor.PatternInvokeWithRetry && query.Get("mode") == "async" {
		name := req.Actions[0].Name()
		ctx := context.WithoutCancel(r.Context())

		s.background.Go(func() {
			results, err := s.opts.Engine.Apply(ctx, pattern, req)
			if err != nil {
				s.logger.Error("background pattern failed", "pattern", pattern, "error", err)
				return
			}
			s.logger.Info("background pattern completed", "pattern", pattern, "summary", action.Summarize(results).String())
		})

		s.writeResults(w, action.Single(name, action.SuccessMessage(BackgroundMessage)))
		return
	}

	results, err := s.opts.Engine.Apply(r.Context(), pattern, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResults(w, results)
}

// buildRequest builds fresh actions for one pattern run
func (s *Server) buildRequest(pattern string, asyncRetry bool) (executor.Request, error) {
	var req executor.Request

	switch pattern {
	case executor.PatternInvokeWithRetry:
		a, err := s.opts.Catalog.Build(s.opts.RetryAction)
		if err != nil {
			return req, err
		}
		req.Actions = []action.Action{a}
		req.Retry = []executor.RetryOption{executor.AsyncRetry(asyncRetry)}
		return req, nil
	case executor.PatternParallel, executor.PatternFanOutFanIn:
		actions, err := s.opts.Catalog.BuildAll(s.opts.Actions)
		if err != nil {
			return req, err
		}
		req.Actions = actions

		if pattern == executor.PatternFanOutFanIn {
			reducer, err := s.opts.Catalog.Reducer(s.opts.Reducer)
			if err != nil {
				return req, err
			}
			req.Reducer = reducer
		}
		return req, nil
	default:
		// let Apply report the unknown pattern
		return req, nil
	}
}

func (s *Server) writeResults(w http.ResponseWriter, results *action.ResultSet) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(results); err != nil {
		s.logger.Error("encode results", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case util.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, util.ErrInvalidConfig), errors.Is(err, util.ErrUnknownKind), errors.Is(err, util.ErrNoReducer):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); encErr != nil {
		s.logger.Error("encode error response", "error", encErr)
	}
}
