package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// handleError maps a service error to its status code and error body.
// Unknown errors are logged and reported without detail.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	resp := errorResponse{Error: err.Error(), Code: code}

	var status int
	switch code {
	case domain.CodeUnauthorized:
		status = http.StatusUnauthorized
		resp.Error = "unauthorized"
		w.Header().Set("WWW-Authenticate", `Bearer realm="voice"`)
	case domain.CodeForbidden:
		status = http.StatusForbidden
	case domain.CodeValidation:
		status = http.StatusBadRequest
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				resp.Fields = append(resp.Fields, fieldError{Field: fe.Field, Message: fe.Message})
			}
		}
	case domain.CodeNotFound:
		status = http.StatusNotFound
		resp.Error = "not found"
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeParseFailed, domain.CodeMatchAmbiguous, domain.CodeExecutionFailed:
		status = http.StatusUnprocessableEntity
	default:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		status = http.StatusInternalServerError
		resp.Error = "internal server error"
	}

	writeJSON(w, status, resp)
}
