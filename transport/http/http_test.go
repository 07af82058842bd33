package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel/config"
	"hostel/transport/http/router"

	"github.com/stretchr/testify/assert"
)

type passthroughApp struct{}

func (passthroughApp) Tracing(next http.Handler) http.Handler { return next }

func (passthroughApp) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

type passthroughAuth struct{}

func (passthroughAuth) Auth(next http.Handler) http.Handler   { return next }
func (passthroughAuth) APIKey(next http.Handler) http.Handler { return next }
func (passthroughAuth) RBAC(next http.Handler) http.Handler   { return next }

func newTestServer() *HTTP {
	return New(&config.Config{}, router.New(router.DomainHandlers{}), passthroughApp{}, passthroughAuth{})
}

func TestHTTP_Health(t *testing.T) {
	tests := []struct {
		name  string
		state ServerState
		code  int
	}{
		{name: "ready", state: ServerStateReady, code: http.StatusOK},
		{name: "grace period", state: ServerStateInGracePeriod, code: http.StatusServiceUnavailable},
		{name: "cleanup period", state: ServerStateInCleanupPeriod, code: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer()
			handler := server.Adaptor()
			server.setState(tt.state)

			recorder := httptest.NewRecorder()
			handler(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, recorder.Code)
		})
	}
}

func TestHTTP_AdaptorIsIdempotent(t *testing.T) {
	server := newTestServer()

	first := server.Adaptor()
	second := server.Adaptor()

	recorder := httptest.NewRecorder()
	second(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotNil(t, first)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, ServerStateReady, server.State())
}

func TestHTTP_UnknownRoute(t *testing.T) {
	handler := newTestServer().Adaptor()

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
