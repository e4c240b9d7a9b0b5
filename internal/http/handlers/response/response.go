package response

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func RenderBadRequest(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

// RenderValidationError renders field errors of an ozzo validation error
// under "fields". Other errors render as a plain bad request.
func RenderValidationError(rw http.ResponseWriter, err error) {
	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		RenderBadRequest(rw)
		return
	}
	fields := make(map[string]string, len(fieldErrors))
	for field, fieldErr := range fieldErrors {
		fields[field] = fieldErr.Error()
	}
	Render(rw, errorResponse{Error: "invalid request data", Fields: fields}, http.StatusBadRequest)
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderForbidden(rw http.ResponseWriter, msg string) {
	RenderError(rw, msg, http.StatusForbidden)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

// RenderServiceUnavailable is used when an accepted message could not be
// handed over for processing.
func RenderServiceUnavailable(rw http.ResponseWriter) {
	RenderError(rw, "service unavailable", http.StatusServiceUnavailable)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
	RenderRaw(rw, "application/json", content, status)
}

func RenderRaw(rw http.ResponseWriter, contentType string, body []byte, status int) {
	rw.Header().Set("Content-Type", contentType)
	rw.WriteHeader(status)
	rw.Write(body)
}
