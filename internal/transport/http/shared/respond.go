// Package shared holds response helpers used by every feature handler so the
// envelope format stays uniform across modules.
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "zenthera/pkg/domain-errors"
)

// Envelope is the uniform success wrapper: {"status":"success","data":...}.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorEnvelope is the uniform error wrapper: {"status":"error","message":...}.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteData writes a success envelope with the given status code.
func WriteData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Status: "success", Data: data})
}

// WriteError maps a domain error code to an HTTP status and writes the error
// envelope. Uncoded errors become 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidState:
		status = http.StatusBadRequest
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeConflict:
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Status: "error", Message: dErrors.MessageOf(err)})
}

// DecodeJSON decodes a request body into dst, returning a coded bad-request
// error on malformed input. An empty body decodes into the zero value.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return dErrors.Wrap(dErrors.CodeBadRequest, "invalid request body", err)
	}
	return nil
}
