package handler

import (
	"encoding/json"
	"net/http"

	"cash-card/internal/errors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeResponse(w http.ResponseWriter, statusCode int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeError drops the details of internal errors: they carry driver text
// and the caller may not have passed the PIN check. The repository logs them.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	details := appErr.Details
	if appErr.Code == errors.InternalError {
		details = ""
	}

	writeResponse(w, appErr.HTTPStatus(), Response{Error: &Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: details,
	}})
}

// writeServiceError maps anything that is not an AppError to internal_error.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		writeError(w, appErr)
		return
	}
	writeError(w, errors.NewAppError(errors.InternalError, "an unexpected error occurred"))
}
