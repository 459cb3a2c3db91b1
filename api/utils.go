package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"AcctEventSQL/api/constants"
	"AcctEventSQL/internal/apperr"
	"AcctEventSQL/internal/logger"
)

// Error response helper
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	LogError("%d %s", status, errMsg)
	writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": errMsg,
	})
}

// RespondWithPayload sends a successful response: payload's fields plus ok.
func RespondWithPayload(w http.ResponseWriter, payload map[string]interface{}) {
	resp := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		resp[k] = v
	}
	resp["ok"] = true
	writeJSON(w, http.StatusOK, resp)
}

// RespondWithRejection maps an operation error onto the JSON envelope.
// Rejections carry a client message; anything else is logged and answered
// with a generic internal error.
func RespondWithRejection(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		LogError("internal error: %v", err)
		RespondWithError(w, status, constants.ErrInternal)
		return
	}
	RespondWithError(w, status, apperr.Message(err))
}

// StatusFor picks the HTTP status for an operation error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidParameter), errors.Is(err, apperr.ErrConfirmationMismatch):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnreadableInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		LogError("encode response: %v", err)
	}
}

// LogInfo logs an informational message (wrapper for consistent logging)
func LogInfo(msg string, args ...interface{}) {
	if len(args) > 0 {
		logger.L().Infof(msg, args...)
	} else {
		logger.L().Info(msg)
	}
}

// LogError logs an error message (wrapper for consistent logging)
func LogError(msg string, args ...interface{}) {
	if len(args) > 0 {
		logger.L().Errorf(msg, args...)
	} else {
		logger.L().Error(msg)
	}
}
