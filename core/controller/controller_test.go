package controller

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"team-calendar-api/core/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := map[errors.ErrorCode]int{
		errors.ErrInvalidInput:               http.StatusBadRequest,
		errors.ErrInvalidTimeRange:           http.StatusBadRequest,
		errors.ErrParticipantValidation:      http.StatusBadRequest,
		errors.ErrInvalidDate:                http.StatusBadRequest,
		errors.ErrUnauthorized:               http.StatusUnauthorized,
		errors.ErrTokenExpired:               http.StatusUnauthorized,
		errors.ErrMissingAuthorizationHeader: http.StatusUnauthorized,
		errors.ErrForbidden:                  http.StatusForbidden,
		errors.ErrNotFound:                   http.StatusNotFound,
		errors.ErrTimeConflict:               http.StatusConflict,
		errors.ErrMeetingCancelled:           http.StatusConflict,
		errors.ErrCreateFailed:               http.StatusInternalServerError,
		errors.ErrInternalServer:             http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}

func TestErrorResponse(t *testing.T) {
	h := NewBaseController()

	tests := []struct {
		name    string
		err     error
		status  int
		code    errors.ErrorCode
		message string
	}{
		{
			name:    "app error",
			err:     errors.NewAppError(errors.ErrTimeConflict, "participant is busy", nil),
			status:  http.StatusConflict,
			code:    errors.ErrTimeConflict,
			message: "participant is busy",
		},
		{
			name:    "wrapped app error",
			err:     fmt.Errorf("outer: %w", errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)),
			status:  http.StatusNotFound,
			code:    errors.ErrNotFound,
			message: "meeting not found",
		},
		{
			name:    "plain error is hidden",
			err:     stderrors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    errors.ErrInternalServer,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, h.ErrorResponse(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("driver failure")
	err := errors.NewAppError(errors.ErrGetFailed, "failed to get meetings", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, errors.ErrGetFailed))
	assert.False(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(cause, errors.ErrGetFailed))
}
