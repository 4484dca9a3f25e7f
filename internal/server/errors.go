package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/logger"
	"github.com/castlemilk/reclaim/internal/service"
)

const (
	codeBadRequest        = "BAD_REQUEST"
	codeNotFound          = "NOT_FOUND"
	codeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	codeInternal          = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiError is a handler-level failure that is not an import error.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, code: codeBadRequest, message: msg}
}

func notFound(msg string) error {
	return &apiError{status: http.StatusNotFound, code: codeNotFound, message: msg}
}

// statusFor maps import error codes to HTTP statuses.
func statusFor(code extraction.ImportErrorCode) int {
	switch code {
	case extraction.ErrFileSize:
		return http.StatusRequestEntityTooLarge
	case extraction.ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case extraction.ErrValidation:
		return http.StatusBadRequest
	case extraction.ErrEmptyFile, extraction.ErrFileParse, extraction.ErrExport:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apiError
	var ie *extraction.ImportError
	var mbe *http.MaxBytesError
	var status int
	var body errorBody

	switch {
	case errors.As(err, &ae):
		status, body = ae.status, errorBody{Code: ae.code, Message: ae.message}
	case errors.As(err, &ie):
		status = statusFor(ie.Code)
		body = errorBody{Code: string(ie.Code), Message: ie.UserMessage()}
	case errors.As(err, &mbe):
		status = http.StatusRequestEntityTooLarge
		body = errorBody{Code: string(extraction.ErrFileSize), Message: extraction.NewFileSizeError("", mbe.Limit, s.maxFile).UserMessage()}
	case errors.Is(err, service.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
		body = errorBody{Code: codeRemoteUnavailable, Message: err.Error()}
	default:
		status = http.StatusInternalServerError
		body = errorBody{Code: codeInternal, Message: "internal error"}
	}

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("code", body.Code).Msg("request rejected")
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func asMaxBytes(err error, target **http.MaxBytesError) bool {
	return errors.As(err, target)
}
