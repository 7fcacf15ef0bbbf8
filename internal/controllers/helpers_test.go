package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justatarek/ergodnc/internal/utils"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantErrors map[string]string
	}{
		{
			name:       "validation keeps the field key",
			err:        utils.NewValidationError("office_id", "Invalid office_id"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   utils.ErrCodeValidation,
			wantErrors: map[string]string{"office_id": "Invalid office_id"},
		},
		{
			name:       "lock timeout is a retryable conflict",
			err:        utils.ErrLockTimeout,
			wantStatus: http.StatusConflict,
			wantCode:   utils.ErrCodeConflict,
		},
		{
			name:       "not found",
			err:        utils.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   utils.ErrCodeNotFound,
		},
		{
			name:       "forbidden",
			err:        utils.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   utils.ErrCodeForbidden,
		},
		{
			name:       "anything else stays opaque",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   utils.ErrCodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)

			var body utils.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.wantCode, body.Code)
			require.Equal(t, tc.wantErrors, body.Errors)
			if tc.wantStatus == http.StatusInternalServerError {
				require.NotContains(t, body.Message, "pq:", "internal details must not leak")
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	for query, want := range map[string]int{
		"":         1,
		"page=0":   1,
		"page=-3":  1,
		"page=abc": 1,
		"page=2":   2,
		"page=17":  17,
	} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/offices?"+query, nil)
		require.Equal(t, want, parsePage(r), "query %q", query)
	}
}
