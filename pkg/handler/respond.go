package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/common"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/metrics"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code and records it on the request scope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.ObserveError(err)
	scope := scopeFrom(r)

	var (
		verr *errs.ValidationError
		nerr *errs.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
	case errs.IsPersistence(err):
		if scope != nil {
			scope.TraceError(err)
			scope.Log.Errorf("store unavailable: %v", err)
		}
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable"})
	default:
		if scope != nil {
			scope.TraceError(err)
			scope.Log.Errorf("request failed: %v", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// logPersistence records a non-fatal store failure. It reports whether the
// write went through.
func logPersistence(r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	metrics.ObserveError(err)
	if scope := scopeFrom(r); scope != nil {
		scope.TraceError(err)
		scope.Log.Warnf("continuing without persistence: %v", err)
	}
	return false
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewValidation("body", "invalid JSON: %v", err)
	}
	return nil
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func scopeFrom(r *http.Request) *common.Scope {
	scope, _ := r.Context().Value(scopeKey).(*common.Scope)
	return scope
}
