package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gatortrader/internal/models"
	"gatortrader/internal/repository"
	"gatortrader/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError translates the business layer's error taxonomy into
// HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *repository.NotFoundError
	var validation *repository.ValidationError
	var invalidQuery *repository.InvalidQueryError
	var mapping *models.MappingError

	switch {
	case errors.As(err, &notFound):
		WriteError(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &validation):
		WriteError(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &invalidQuery):
		WriteError(w, invalidQuery.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrModeratorRequired):
		WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrModerationConflict):
		WriteError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &mapping):
		WriteError(w, err.Error(), http.StatusInternalServerError)
	default:
		WriteError(w, err.Error(), http.StatusInternalServerError)
	}
}
