package bootstrap

import (
	"context"
	"fmt"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/validator"
)

// CreateAdmin provisions the first administrator account, so the staff API
// can be reached on a fresh database.
func CreateAdmin(ctx context.Context, email, password, fullName string) (*dto.UserResponse, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := NewLogger(cfg.App.LogLevel)

	req := &dto.CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     entity.RoleAdmin,
	}
	v := validator.NewValidator()
	if err := v.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid admin account: %v", v.FormatValidationErrors(err))
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Token issuing is never reached from CreateUser, so no redis client is needed
	authUsecase := usecase.NewAuthUsecase(
		db, log,
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewDoctorRepository(),
		jwt.NewJWTService(cfg.JWT),
		nil,
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return authUsecase.CreateUser(ctx, req)
}

// Migrate runs the embedded schema migrations in the given direction:
// "up", "down" (steps back) or "version".
func Migrate(direction string, steps int) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := NewLogger(cfg.App.LogLevel)

	migrator, err := database.NewMigrator(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	switch direction {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down(steps)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}
