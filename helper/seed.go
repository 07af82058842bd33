package helper

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hostel/config"
	"hostel/internal/domains/auth/model/dto"
	"hostel/internal/domains/auth/service"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/validator"

	"github.com/rs/zerolog/log"
)

var ErrSeedCredentials = errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")

// SeedAdmin creates the first superadmin. An existing account with that email is left untouched.
func SeedAdmin(ctx context.Context, cfg *config.Config, auth service.Auth) error {
	if cfg.Seed.AdminEmail == constant.Empty || cfg.Seed.AdminPassword == constant.Empty {
		return ErrSeedCredentials
	}

	name := cfg.Seed.AdminName
	req := dto.RegisterRequest{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Level:    constant.RoleSuperAdmin,
		FullName: &name,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		return fmt.Errorf("invalid seed admin: %w", err)
	}

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ContextSystem)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSuperAdmin)

	err := auth.Register(ctx, req)
	if failure.Is(err, http.StatusConflict) {
		log.Info().Str("email", req.Email).Msg("Seed admin already exists")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Info().Str("email", req.Email).Msg("Seed admin created")

	return nil
}
