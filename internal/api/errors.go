// internal/api/errors.go
package api

import "fmt"

// Op names the kind of call that failed.
type Op string

const (
	OpAnalyze  Op = "analyze"
	OpFollowUp Op = "followup"
	OpHistory  Op = "history"
)

// Fallback messages used when the service rejects a call without an error field.
const (
	FallbackAnalyzeMessage  = "Unknown error occurred."
	FallbackFollowUpMessage = "Unknown error occurred during follow-up."
)

// APIError is a non-2xx response from the analysis service.
type APIError struct {
	Op      Op
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// TransportError covers failures where no usable response was obtained:
// network errors, undecodable bodies and responses of the wrong shape.
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	switch e.Op {
	case OpAnalyze:
		return fmt.Sprintf("Request failed: %v", e.Err)
	case OpFollowUp:
		return fmt.Sprintf("Follow-up request failed: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func fallbackMessage(op Op) string {
	if op == OpFollowUp {
		return FallbackFollowUpMessage
	}
	return FallbackAnalyzeMessage
}
