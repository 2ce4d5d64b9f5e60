package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/catalog"
	"github.com/goliatone/go-menu-catalog/pricing"
)

// errorBody is the body of every error response.
type errorBody struct {
	Detail any `json:"detail"`
}

type deleted struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func deletedBody(entity string) deleted {
	return deleted{Status: true, Message: fmt.Sprintf("The %s has been deleted", entity)}
}

// paramError is a malformed path parameter.
type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "invalid " + e.name
}

// bodyError is a request body that could not be decoded.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string {
	return "malformed body: " + e.err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		perr *paramError
		berr *bodyError
		verr validation.Errors
	)

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	case errors.Is(err, pricing.ErrInvalidPrice):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: pricing.ErrInvalidPrice.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: verr})
	case errors.As(err, &perr), errors.As(err, &berr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
	default:
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &paramError{name: name}
	}
	return id, nil
}

func pathIDs(r *http.Request, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
