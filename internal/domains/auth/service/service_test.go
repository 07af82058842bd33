package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	"hostel/infras/jwt"
	jwtMocks "hostel/infras/jwt/mocks"
	"hostel/infras/otel/mocks"
	"hostel/internal/domains/auth/model/dto"
	"hostel/internal/domains/auth/service"
	userMocks "hostel/internal/domains/user/mocks"
	userModel "hostel/internal/domains/user/model"
	"hostel/shared/constant"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/password"
	"hostel/shared/timezone"
)

func staffUser(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash("password")
	require.NoError(t, err)

	name := "Front Desk"

	return userModel.User{
		ID:       "user-id-123",
		Email:    "desk@hostel.test",
		Password: hashed,
		Level:    constant.RoleStaff,
		FullName: &name,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ContextSystem,
			ModifiedBy: constant.ContextSystem,
		},
	}
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "New@Hostel.test", Password: "secret123"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "superadmin registers staff",
			ctx:  asUser("root-id", constant.RoleSuperAdmin),
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
					assert.Equal(t, "new@hostel.test", user.Email)
					assert.Equal(t, constant.RoleStaff, user.Level)
					assert.Equal(t, "root-id", user.CreatedBy)
					assert.NoError(t, password.Verify("secret123", user.Password))

					return nil
				})
			},
		},
		{
			name:      "admin cannot register",
			ctx:       asUser("admin-id", constant.RoleAdmin),
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "duplicate email",
			ctx:  asUser("root-id", constant.RoleSuperAdmin),
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "lookup error",
			ctx:  asUser("root-id", constant.RoleSuperAdmin),
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := userMocks.NewMockUser(ctrl)
			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

			tt.setupMock(mockUserRepo)

			err := svc.Register(tt.ctx, req)
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	validUser := staffUser(t)

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ any) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "nobody@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "wrongpassword"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				inactive := validUser
				inactive.Active = false

				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "repository error",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "desk@hostel.test", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := userMocks.NewMockUser(ctrl)
			mockJWT := jwtMocks.NewMockJWT(ctrl)
			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

			tt.setupMock(mockUserRepo, mockJWT)

			result, err := svc.Login(context.Background(), tt.req)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				assert.Equal(t, "access-token", result.AccessToken)
				assert.Equal(t, "refresh-token", result.RefreshToken)
				assert.Equal(t, constant.RoleStaff, result.Level)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		setupMock func(jwtSvc *jwtMocks.MockJWT)
		wantErr   bool
	}{
		{
			name:  "successful token refresh",
			token: "valid-refresh-token",
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name:  "invalid refresh token",
			token: "invalid-refresh-token",
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().
					RefreshTokens("invalid-refresh-token").
					Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockJWT := jwtMocks.NewMockJWT(ctrl)
			svc := service.New(userMocks.NewMockUser(ctrl), &config.Config{}, mocks.NewOtel(), mockJWT)

			tt.setupMock(mockJWT)

			result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: tt.token})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "new-access-token", result.AccessToken)
			assert.Equal(t, "new-refresh-token", result.RefreshToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	validUser := staffUser(t)
	req := dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.ChangePasswordRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "successful password change",
			ctx:  asUser(validUser.ID, constant.RoleStaff),
			req:  req,
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ any) error {
						hashed, ok := fields[userModel.FieldPassword].(string)
						assert.True(t, ok)
						assert.NoError(t, password.Verify("newpassword123", hashed))
						assert.Equal(t, validUser.ID, fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:      "missing identity",
			ctx:       context.Background(),
			req:       req,
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "repository error",
			ctx:  asUser(validUser.ID, constant.RoleStaff),
			req:  req,
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "user not found",
			ctx:  asUser("ghost", constant.RoleStaff),
			req:  req,
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			ctx:  asUser(validUser.ID, constant.RoleStaff),
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update password error",
			ctx:  asUser(validUser.ID, constant.RoleStaff),
			req:  req,
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := userMocks.NewMockUser(ctrl)
			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

			tt.setupMock(mockUserRepo)

			err := svc.ChangePassword(tt.ctx, tt.req)
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
