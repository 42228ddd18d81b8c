package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GenericErrorMessage is shown when the server gave no usable message.
const GenericErrorMessage = "Something went wrong. Please try again."

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// newAPIError parses the server's error body, which carries a "message" field
// on well-formed errors.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// ErrorMessage extracts a user-presentable message from an error, falling
// back to a generic string when the server provided none.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericErrorMessage
}
