package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostel/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantSeqs []int64
		failed   bool
	}{
		{
			name:     "newest page",
			status:   http.StatusOK,
			body:     `{"success":true,"data":{"bookings":[{"id":"b-2","sequence":12,"booking_reference":"BK-2"},{"id":"b-1","sequence":11}],"total_data":2}}`,
			wantSeqs: []int64{12, 11},
		},
		{
			name:    "token rejected",
			status:  http.StatusUnauthorized,
			body:    `{"success":false,"message":"Token has expired"}`,
			wantErr: notification.ErrUnauthorized,
			failed:  true,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"boom"}`,
			failed: true,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/bookings", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "room_bookings.sequence", r.URL.Query().Get("sort_by"))
				assert.Equal(t, "DESC", r.URL.Query().Get("sort_dir"))
				assert.Equal(t, "5", r.URL.Query().Get("limit"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			records, err := notification.NewHTTPFetcher(server.URL+"/", time.Second, 5).Fetch(context.Background(), "secret")
			if tt.failed {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSeqs, sequencesOf(records))
			assert.Equal(t, "BK-2", records[0].BookingReference)
		})
	}
}
