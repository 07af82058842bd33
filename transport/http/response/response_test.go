package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusOK, map[string]int{"total": 3})

	body := decode(t, recorder)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"total": float64(3)}, body["data"])
}

func TestWithMessage(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithMessage(recorder, http.StatusCreated, "Room created successfully")

	body := decode(t, recorder)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Room created successfully", body["message"])
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantErrors bool
	}{
		{
			name:       "validation failure carries field errors",
			err:        failure.Validation("The given data was invalid", map[string][]string{"email": {"email is required"}}),
			wantCode:   http.StatusBadRequest,
			wantErrors: true,
		},
		{
			name:     "invalid state",
			err:      failure.InvalidState("cannot transition booking from checked_out to confirmed"),
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			body := decode(t, recorder)
			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, false, body["success"])
			if tt.wantCode >= http.StatusInternalServerError {
				assert.Equal(t, constant.ResponseErrorInternal, body["message"])
			} else {
				assert.Equal(t, tt.err.Error(), body["message"])
			}

			_, hasErrors := body["errors"]
			assert.Equal(t, tt.wantErrors, hasErrors)
		})
	}
}

func TestWithRequestLimitExceeded(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithRequestLimitExceeded(recorder, 42)

	body := decode(t, recorder)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "42", recorder.Header().Get(constant.ResponseHeaderRetryAfter))
	assert.Equal(t, false, body["success"])
}
