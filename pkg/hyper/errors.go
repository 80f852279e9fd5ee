package hyper

import (
	"errors"
	"fmt"

	"github.com/hyperwalk-io/hyperwalk/internal/constants"
)

// ClientError represents a 4xx response from the API. It carries the
// status code and the raw response body for diagnostics.
type ClientError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: status %d: %s", e.StatusCode, truncateBody(e.Body))
}

// ServerError represents a 5xx response from the API.
type ServerError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d: %s", e.StatusCode, truncateBody(e.Body))
}

// KeyNotFoundError is returned when a key is requested from a loaded
// schema that does not contain it. It is the logical counterpart of an
// HTTP 404 and carries that code by convention.
type KeyNotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in resource schema (status %d)", e.Key, constants.HTTPStatusNotFound)
}

// MalformedResponseError is fatal: the decoded body's top-level shape is
// neither object nor array, so no schema can represent it.
type MalformedResponseError struct {
	Body []byte
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: top-level JSON is neither object nor array: %s", truncateBody(e.Body))
}

// AmbiguousBindingError is returned when a verb call supplies positional
// URI-template arguments but the template does not declare exactly one
// variable, so no binding can be inferred.
type AmbiguousBindingError struct {
	Variables []string
	Args      int
}

// Error implements the error interface.
func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf("ambiguous binding: %d positional argument(s) for template variables %v", e.Args, e.Variables)
}

// Common static errors that can be wrapped with context.
var (
	ErrRootURLRequired = errors.New("root URL is required")
	ErrConfigRequired  = errors.New("config is required")
	ErrNoURL           = errors.New("resource has no URL to fetch")
	ErrNilSession      = errors.New("session is required")
)

// handleStatus maps a response status code onto the error taxonomy.
// Codes inside the success range map to nil.
func handleStatus(statusCode int, body []byte) error {
	switch {
	case statusCode >= constants.HTTPStatusInternalServerError:
		return &ServerError{StatusCode: statusCode, Body: body}
	case statusCode >= constants.HTTPStatusBadRequest:
		return &ClientError{StatusCode: statusCode, Body: body}
	default:
		return nil
	}
}

// IsNotFound reports whether the error is a missing key in a loaded
// schema or an HTTP 404.
func IsNotFound(err error) bool {
	keyErr := &KeyNotFoundError{}
	if errors.As(err, &keyErr) {
		return true
	}

	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode == constants.HTTPStatusNotFound
	}

	return false
}

// IsClientError reports whether the error is a 4xx response.
func IsClientError(err error) bool {
	clientErr := &ClientError{}

	return errors.As(err, &clientErr)
}

// IsServerError reports whether the error is a 5xx response.
func IsServerError(err error) bool {
	serverErr := &ServerError{}

	return errors.As(err, &serverErr)
}

// IsMalformedResponse reports whether the error is the fatal
// unrepresentable-body condition.
func IsMalformedResponse(err error) bool {
	malformedErr := &MalformedResponseError{}

	return errors.As(err, &malformedErr)
}

// IsAmbiguousBinding reports whether the error is a positional-argument
// binding failure.
func IsAmbiguousBinding(err error) bool {
	bindingErr := &AmbiguousBindingError{}

	return errors.As(err, &bindingErr)
}

const maxBodyInError = 200

// truncateBody keeps error strings readable when bodies are large.
func truncateBody(body []byte) string {
	if len(body) > maxBodyInError {
		return string(body[:maxBodyInError]) + "..."
	}

	return string(body)
}
