package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"travel-cms/internal/repositories"
	"travel-cms/internal/services"
	"travel-cms/pkg/config"
	"travel-cms/pkg/service"
)

// SeedAdmin создаёт администратора из конфигурации, если его ещё нет.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	log.Println("  - Проверка администратора...")

	adminRepo := repositories.NewAdminRepository(db, repositories.NewTxManager(db), logger)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	authService := services.NewAuthService(adminRepo, nil, jwtSvc, logger, &cfg.Auth, &cfg.Admin)

	created, err := authService.EnsureAdmin(ctx)
	if err != nil {
		return err
	}
	if created {
		log.Printf("    - Администратор %s создан", cfg.Admin.Email)
	} else {
		log.Println("    - Администратор уже существует, пропуск")
	}
	return nil
}
