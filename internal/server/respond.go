package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinout/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	Command   *int        `json:"command,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInternal, "":
		return http.StatusInternalServerError
	case errors.ErrCodeMissingAsset:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	body := errorBody{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if code == "" {
		body.Code = errors.ErrCodeInternal
	}
	if idx := errors.CommandIndex(err); idx >= 0 {
		body.Command = &idx
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFoundError(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}
