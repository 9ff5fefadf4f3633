package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/logger"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(r.Context()).Error("encoding response failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func sendJSONError(w http.ResponseWriter, r *http.Request, message string, status int) {
	logger.FromContext(r.Context()).Warn("sending JSON error to client", "message", message, "status", status)
	writeJSON(w, r, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return domain.NewInvalidInput("decode", "body", err.Error())
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.NewInvalidInput("decode", "body", "malformed JSON: "+err.Error())
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDegenerateRate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrIncompleteAnswers),
		errors.Is(err, domain.ErrUnknownProfile):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, advisor.ErrAdvisorDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusUnprocessableEntity:
		message = "enter a nonzero annual rate"
	case http.StatusBadGateway:
		message = "upstream service failed"
	case http.StatusInternalServerError:
		logger.FromContext(r.Context()).Error("request failed", "error", err)
		message = http.StatusText(status)
	}
	sendJSONError(w, r, message, status)
}
