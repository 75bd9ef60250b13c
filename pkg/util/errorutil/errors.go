package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound is the storage-level "no such row" signal shared by every repository backend.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned by repositories when an optimistic version check fails.
var ErrVersionConflict = errors.New("version conflict")

// Error codes surfaced to API clients.
const (
	CodeNotFound                = "NOT_FOUND"
	CodeNoAgentAvailable        = "NO_AGENT_AVAILABLE"
	CodeRoleMismatch            = "ROLE_MISMATCH"
	CodeAccessDenied            = "ACCESS_DENIED"
	CodePriorityUpdateForbidden = "PRIORITY_UPDATE_FORBIDDEN"
	CodeBadRequest              = "BAD_REQUEST"
	CodeInvalidEnumValue        = "INVALID_ENUM_VALUE"
	CodeInvalidParameter        = "INVALID_PARAMETER_VALUE"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeAlreadyClosed           = "ALREADY_CLOSED"
	CodeTicketClosed            = "TICKET_CLOSED"
	CodeInvalidAssignment       = "INVALID_ASSIGNMENT"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeConflict                = "CONFLICT"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInternal                = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewNoAgentAvailable() error {
	return NewDomainError(CodeNoAgentAvailable, "no support agent available for assignment", http.StatusNotFound, nil)
}

func NewRoleMismatch(message string) error {
	return NewDomainError(CodeRoleMismatch, message, http.StatusForbidden, nil)
}

func NewAccessDenied(message string) error {
	return NewDomainError(CodeAccessDenied, message, http.StatusForbidden, nil)
}

func NewPriorityUpdateForbidden() error {
	return NewDomainError(CodePriorityUpdateForbidden, "customers cannot update priority", http.StatusForbidden, nil)
}

func NewBadRequest(message string) error {
	return NewDomainError(CodeBadRequest, message, http.StatusBadRequest, nil)
}

func NewInvalidEnumValue(field, value string) error {
	return NewDomainError(CodeInvalidEnumValue, fmt.Sprintf("invalid %s value: %s", field, value), http.StatusBadRequest, nil)
}

func NewInvalidParameter(name string) error {
	return NewDomainError(CodeInvalidParameter, fmt.Sprintf("invalid value for parameter '%s'", name), http.StatusBadRequest, nil)
}

func NewInvalidTransition(message string) error {
	return NewDomainError(CodeInvalidTransition, message, http.StatusUnprocessableEntity, nil)
}

func NewAlreadyClosed() error {
	return NewDomainError(CodeAlreadyClosed, "ticket is already CLOSED", http.StatusUnprocessableEntity, nil)
}

func NewTicketClosed(message string) error {
	return NewDomainError(CodeTicketClosed, message, http.StatusUnprocessableEntity, nil)
}

func NewInvalidAssignment(message string) error {
	return NewDomainError(CodeInvalidAssignment, message, http.StatusBadRequest, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       codeForStatus(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	if errors.Is(err, ErrNotFound) {
		return &DomainError{
			Code:       CodeNotFound,
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
			Err:        err,
		}
	}
	if errors.Is(err, ErrVersionConflict) {
		return &DomainError{
			Code:       CodeConflict,
			Message:    "ticket was modified concurrently, retry the request",
			HTTPStatus: http.StatusConflict,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError is ToDomainError typed as error, for return statements.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// HasCode reports whether err carries the given DomainError code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeAccessDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnprocessableEntity:
		return CodeValidationFailed
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return http.StatusText(status)
}
