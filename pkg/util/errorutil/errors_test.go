package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "domain passthrough", err: NewAlreadyClosed(), wantCode: CodeAlreadyClosed, wantStatus: http.StatusUnprocessableEntity},
		{name: "wrapped domain", err: fmt.Errorf("update: %w", NewPriorityUpdateForbidden()), wantCode: CodePriorityUpdateForbidden, wantStatus: http.StatusForbidden},
		{name: "fiber error", err: fiber.NewError(http.StatusBadRequest, "bad body"), wantCode: CodeBadRequest, wantStatus: http.StatusBadRequest},
		{name: "not found sentinel", err: fmt.Errorf("get ticket: %w", ErrNotFound), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "version conflict", err: ErrVersionConflict, wantCode: CodeConflict, wantStatus: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode || got.HTTPStatus != tt.wantStatus {
				t.Fatalf("ToDomainError() = %s/%d, want %s/%d", got.Code, got.HTTPStatus, tt.wantCode, tt.wantStatus)
			}
		})
	}
}

func TestErrorKindsStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewNotFound("ticket", nil), http.StatusNotFound},
		{NewNoAgentAvailable(), http.StatusNotFound},
		{NewRoleMismatch("x"), http.StatusForbidden},
		{NewAccessDenied("x"), http.StatusForbidden},
		{NewBadRequest("x"), http.StatusBadRequest},
		{NewInvalidEnumValue("status", "DONE"), http.StatusBadRequest},
		{NewInvalidTransition("x"), http.StatusUnprocessableEntity},
		{NewTicketClosed("x"), http.StatusUnprocessableEntity},
		{NewInvalidAssignment("x"), http.StatusBadRequest},
		{NewUnauthorized("x"), http.StatusUnauthorized},
		{NewConflict("x", nil), http.StatusConflict},
	}
	for _, c := range cases {
		if got := ToDomainError(c.err).HTTPStatus; got != c.status {
			t.Errorf("%v: status = %d, want %d", c.err, got, c.status)
		}
	}
}

func TestMapErrorNil(t *testing.T) {
	if MapError(nil) != nil {
		t.Fatal("MapError(nil) should be nil")
	}
}
