// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeConfigurationType    ErrorCode = "CONFIGURATION_TYPE_ERROR"
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeQuerySyntax          ErrorCode = "QUERY_SYNTAX_ERROR"
	ErrCodeUnknownOperation     ErrorCode = "UNKNOWN_OPERATION"
	ErrCodeInvalidMethodRequest ErrorCode = "INVALID_METHOD_REQUEST"
	ErrCodeSubstitution         ErrorCode = "SUBSTITUTION_ERROR"

	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"

	ErrCodeTransport         ErrorCode = "TRANSPORT_ERROR"
	ErrCodeResponseTooLarge  ErrorCode = "RESPONSE_TOO_LARGE"
	ErrCodeResponseParse     ErrorCode = "RESPONSE_PARSE_ERROR"
	ErrCodeVendor            ErrorCode = "VENDOR_ERROR"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on code so sentinels like ErrUnknownOperation work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrConfigurationType    = &StandardError{Code: ErrCodeConfigurationType}
	ErrMissingRequiredField = &StandardError{Code: ErrCodeMissingRequiredField}
	ErrQuerySyntax          = &StandardError{Code: ErrCodeQuerySyntax}
	ErrUnknownOperation     = &StandardError{Code: ErrCodeUnknownOperation}
	ErrInvalidMethodRequest = &StandardError{Code: ErrCodeInvalidMethodRequest}
	ErrSubstitution         = &StandardError{Code: ErrCodeSubstitution}
	ErrCredentialMissing    = &StandardError{Code: ErrCodeCredentialMissing}
	ErrTransport            = &StandardError{Code: ErrCodeTransport}
	ErrResponseTooLarge     = &StandardError{Code: ErrCodeResponseTooLarge}
	ErrResponseParse        = &StandardError{Code: ErrCodeResponseParse}
	ErrVendor               = &StandardError{Code: ErrCodeVendor}
)

func NewConfigurationTypeError(field, expected string, got interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationType,
		Message:   fmt.Sprintf("field %q must be of type %s", field, expected),
		Details:   fmt.Sprintf("got %T", got),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "expected": expected},
		Timestamp: time.Now().UTC(),
	}
}

// NewDecodeError groups every field error produced by a boundary decode.
func NewDecodeError(problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationType,
		Message:   "form configuration has invalid field types",
		Details:   strings.Join(problems, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"problems": problems},
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingRequiredFieldError(fields ...string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRequiredField,
		Message:   fmt.Sprintf("missing required configuration: %s", strings.Join(fields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

func NewQuerySyntaxError(field, fragment string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeQuerySyntax,
		Message:   fmt.Sprintf("%s could not be parsed: %s", field, fragment),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "fragment": fragment},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewUnknownOperationError(kind, key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownOperation,
		Message:   fmt.Sprintf("unknown %s method type: %s", kind, key),
		Retryable: false,
		Metadata:  map[string]interface{}{"key": key},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidMethodRequestError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMethodRequest,
		Message:   fmt.Sprintf("%s: %s", field, reason),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

func NewSubstitutionError(binding, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubstitution,
		Message:   fmt.Sprintf("could not substitute binding %s: %s", binding, reason),
		Retryable: false,
		Metadata:  map[string]interface{}{"binding": binding},
		Timestamp: time.Now().UTC(),
	}
}

func NewCredentialMissingError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeCredentialMissing,
		Message:   "no bearer token available for the datasource",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewResponseTooLargeError(limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseTooLarge,
		Message:   fmt.Sprintf("response body exceeds the %d byte limit", limit),
		Retryable: false,
		Metadata:  map[string]interface{}{"limit": limit},
		Timestamp: time.Now().UTC(),
	}
}

func NewResponseParseError(raw string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeResponseParse,
		Message:   fmt.Sprintf("could not parse response: %s", raw),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"raw": raw},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewVendorError(status int, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVendor,
		Message:   message,
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeConfigurationType, ErrCodeMissingRequiredField, ErrCodeQuerySyntax,
		ErrCodeInvalidMethodRequest, ErrCodeSubstitution:
		return "VALIDATION"
	case ErrCodeUnknownOperation, ErrCodeCredentialMissing:
		return "CONTRACT"
	case ErrCodeTransport, ErrCodeResponseTooLarge, ErrCodeResponseParse:
		return "TRANSPORT"
	case ErrCodeVendor:
		return "VENDOR"
	default:
		return "OTHER"
	}
}
