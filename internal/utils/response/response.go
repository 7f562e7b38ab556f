// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope for everything that is not a list.
//
//	{ "status": "ok",    "message": "Parent deleted successfully" }
//	{ "status": "error", "message": "Missing required fields", "error": "field parent_name is required" }
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Created is returned by the add endpoints. The key "userId" is what the
// browser client reads for both entities.
type Created struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Message is a success envelope carrying only a human-readable message.
func Message(msg string) Response {
	return Response{Status: StatusOK, Message: msg}
}

// GeneralError wraps any Go error into our standard Response shape.
// msg is the client-facing summary; err.Error() goes into "error".
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError("Error inserting parent", err))
func GeneralError(msg string, err error) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
		Error:   err.Error(),
	}
}

// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "message": "Missing required fields",
//	  "error": "field student_name is required, field student_age must be a number" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "number", "numeric":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a number", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status:  StatusError,
		Message: "Missing required fields",
		Error:   strings.Join(errMessages, ", "),
	}
}
