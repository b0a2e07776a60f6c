package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/summarize"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Error codes carried in the response envelope.
const (
	codeBadRequest    = "bad_request"
	codeValidation    = "validation_error"
	codeUnauthorized  = "unauthorized"
	codeEmailTaken    = "email_taken"
	codeNotFound      = "not_found"
	codeSummarization = "summarization_failed"
	codeQuoteFailed   = "quote_failed"
	codeInternal      = "internal_error"
)

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeDomainError maps workflow and store errors onto the envelope. A failed
// owner-scoped lookup becomes a 404 whether the client is missing or belongs
// to another advisor; validation sentinels become 422; a summarization
// failure is surfaced as 502 with the underlying message; anything else is an
// opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var sumErr *summarize.Error
	switch {
	case errors.Is(err, meeting.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, codeNotFound, "client not found")
	case meeting.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
	case errors.As(err, &sumErr):
		writeError(w, http.StatusBadGateway, codeSummarization, sumErr.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}
