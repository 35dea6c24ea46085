// internal/api/errors.go
//
// Error taxonomy for the backend contract. The form treats these
// differently: validation never reaches the network, network and mutation
// failures keep the form populated, upload failures name the upload step.

package api

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError blocks an action before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation [%s]: %s", e.Field, e.Message)
}

// NetworkError is a request that failed before producing a GraphQL
// response: transport failure, timeout, or a non-2xx without a usable body.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MutationError is a GraphQL response carrying an errors array. The HTTP
// status is irrelevant; the server answered and rejected the operation.
type MutationError struct {
	Op       string
	Messages []string
}

func (e *MutationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: server rejected the operation", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(e.Messages, "; "))
}

// UploadError marks a failure in the file-upload step so it is never
// mistaken for the mutation that would have followed.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
