package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel/config"
	"hostel/infras/jwt"
	jwtMocks "hostel/infras/jwt/mocks"
	otelMocks "hostel/infras/otel/mocks"
	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testPermissions = `{
  "skip": false,
  "endpoints": [
    {"path": "/api/available-rooms", "method": "GET", "skip": true, "permissions": []},
    {"path": "/api/rooms/{id}", "method": "GET", "skip": false, "permissions": []},
    {"path": "/api/rooms/{id}", "method": "DELETE", "skip": false, "permissions": ["superadmin", "admin"]}
  ]
}`

func newRouter(t *testing.T) (http.Handler, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	perms, err := permissions.Load([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	mw := middleware.NewAuthRoleMiddleware(mockJWT, otelMocks.NewOtel(), perms, cfg)

	ok := func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusNoContent) }

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)
	router.Get("/api/available-rooms", ok)
	router.Get("/api/rooms/{id}", ok)
	router.Delete("/api/rooms/{id}", ok)

	return router, mockJWT
}

func TestAuthRole(t *testing.T) {
	staff := &jwt.Claims{UserID: "user-1", Email: "desk@hostel.test", Role: constant.RoleStaff, TokenID: "tok-1"}
	admin := &jwt.Claims{UserID: "user-2", Email: "admin@hostel.test", Role: constant.RoleAdmin, TokenID: "tok-2"}

	tests := []struct {
		name      string
		method    string
		path      string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		want      int
	}{
		{
			name:   "public route needs no token",
			method: http.MethodGet,
			path:   "/api/available-rooms",
			want:   http.StatusNoContent,
		},
		{
			name:   "missing token",
			method: http.MethodGet,
			path:   "/api/rooms/42",
			want:   http.StatusUnauthorized,
		},
		{
			name:    "malformed header",
			method:  http.MethodGet,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			want:    http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			want: http.StatusUnauthorized,
		},
		{
			name:    "any role may read",
			method:  http.MethodGet,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer staff"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("staff", jwt.AccessToken).Return(staff, nil)
			},
			want: http.StatusNoContent,
		},
		{
			name:    "staff may not delete",
			method:  http.MethodDelete,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer staff"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("staff", jwt.AccessToken).Return(staff, nil)
			},
			want: http.StatusForbidden,
		},
		{
			name:    "admin may delete",
			method:  http.MethodDelete,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("admin", jwt.AccessToken).Return(admin, nil)
			},
			want: http.StatusNoContent,
		},
		{
			name:    "internal key bypasses token",
			method:  http.MethodDelete,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			want:    http.StatusNoContent,
		},
		{
			name:    "wrong internal key",
			method:  http.MethodGet,
			path:    "/api/rooms/42",
			headers: map[string]string{constant.RequestHeaderAPIKey: "guess"},
			want:    http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockJWT := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(mockJWT)
			}

			request := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}
