package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-cms/internal/dto"
	"travel-cms/internal/entities"
	"travel-cms/internal/repositories"
	"travel-cms/pkg/config"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/service"
	"travel-cms/pkg/utils"
)

type AuthServiceInterface interface {
	EnsureAdmin(ctx context.Context) (bool, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
}

// AuthService - единственный администратор: создание при старте и вход.
type AuthService struct {
	adminRepo  repositories.AdminRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	authCfg    *config.AuthConfig
	adminCfg   *config.AdminConfig
}

func NewAuthService(
	adminRepo repositories.AdminRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	authCfg *config.AuthConfig,
	adminCfg *config.AdminConfig,
) AuthServiceInterface {
	return &AuthService{
		adminRepo:  adminRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
		authCfg:    authCfg,
		adminCfg:   adminCfg,
	}
}

// EnsureAdmin создаёт администратора, если таблица пуста. Повторный вызов ничего не меняет.
func (s *AuthService) EnsureAdmin(ctx context.Context) (bool, error) {
	if s.adminCfg.Email == "" || s.adminCfg.Secret == "" {
		return false, fmt.Errorf("не заданы email или секрет администратора")
	}

	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	digest, err := utils.HashPassword(s.adminCfg.Secret)
	if err != nil {
		return false, err
	}

	created, err := s.adminRepo.CreateIfAbsent(ctx, entities.Admin{
		ID:       uuid.NewString(),
		Email:    normalizeEmail(s.adminCfg.Email),
		Password: digest,
	})
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Info("Администратор создан", zap.String("email", s.adminCfg.Email))
	}
	return created, nil
}

// Login проверяет учётные данные: администратор должен быть ровно один,
// email совпадать, а секрет - проходить проверку хеша.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	email := normalizeEmail(payload.Email)
	secret := payload.Credential()
	if email == "" || secret == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.checkLockout(ctx, email); err != nil {
		return nil, err
	}

	admins, err := s.adminRepo.FindAll(ctx, 2)
	if err != nil {
		return nil, err
	}
	if len(admins) != 1 {
		s.logger.Error("Ожидался ровно один администратор", zap.Int("found", len(admins)))
		return nil, apperrors.ErrUnauthorized
	}

	admin := admins[0]
	if normalizeEmail(admin.Email) != email {
		s.handleFailedLoginAttempt(ctx, email)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(admin.Password, secret); err != nil {
		s.handleFailedLoginAttempt(ctx, email)
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, email)

	token, err := s.jwtService.GenerateToken(admin.Email)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токен: %w", err)
	}
	return &dto.AuthResponseDTO{
		Token:     token,
		ExpiresIn: int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) checkLockout(ctx context.Context, email string) error {
	lockoutKey := fmt.Sprintf("lockout:%s", email)

	// Если ключ существует - вход заблокирован
	_, err := s.cacheRepo.Get(ctx, lockoutKey)
	if err == nil {
		return apperrors.ErrAccountLocked
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Кеш блокировок недоступен", zap.Error(err))
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, email string) {
	attemptsKey := fmt.Sprintf("login_attempts:%s", email)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.authCfg.LockoutDuration)
	}
	if attempts >= int64(s.authCfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%s", email)
		_ = s.cacheRepo.Set(ctx, lockoutKey, "locked", s.authCfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Вход заблокирован после неудачных попыток", zap.String("email", email))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, email string) {
	attemptsKey := fmt.Sprintf("login_attempts:%s", email)
	lockoutKey := fmt.Sprintf("lockout:%s", email)
	_ = s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
