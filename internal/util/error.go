package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type UserError struct {
	Message string /* message for user */
	Code    int    /* HTTP status code (optional) */
}

func CreateCustomError(message string, code int) UserError {
	return UserError{Message: message, Code: code}
}

/* implements the error interface */
func (e UserError) Error() string {
	return e.Message
}

func (e UserError) Status() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type ErrorResponse struct {
	Message string   `json:"error"`
	Reasons []string `json:"reasons,omitempty"`
}

/* ValidationError lists every problem found in a submitted payload. */
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) Response() ErrorResponse {
	return ErrorResponse{Message: "Invalid submission", Reasons: e.Reasons}
}

/* TypeMismatch reports whether err comes from a JSON value of the wrong type
 * and returns the ValidationError naming the offending field. */
func TypeMismatch(err error) (*ValidationError, bool) {
	var terr *json.UnmarshalTypeError
	if !errors.As(err, &terr) {
		return nil, false
	}
	field := terr.Field
	if field == "" {
		field = "body"
	}
	return &ValidationError{
		Reasons: []string{fmt.Sprintf("%s has the wrong type", field)},
	}, true
}
