package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-cms/internal/dto"
	"travel-cms/internal/entities"
	"travel-cms/internal/repositories/repotest"
	"travel-cms/pkg/config"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/service"
	"travel-cms/pkg/utils"
)

const (
	testAdminEmail  = "admin@blissfullhimalaya.com"
	testAdminSecret = "s3cret-value"
)

func newAuthFixture(t *testing.T) (*AuthService, *repotest.AdminRepository, service.JWTService) {
	t.Helper()
	admins := &repotest.AdminRepository{}
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	svc := NewAuthService(
		admins,
		repotest.NewCacheRepository(),
		jwtSvc,
		zap.NewNop(),
		&config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute},
		&config.AdminConfig{Email: testAdminEmail, Secret: testAdminSecret},
	)
	return svc.(*AuthService), admins, jwtSvc
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	svc, admins, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := admins.FindAll(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, testAdminEmail, list[0].Email)
	assert.NotEqual(t, testAdminSecret, list[0].Password)
	assert.NoError(t, utils.ComparePasswords(list[0].Password, testAdminSecret))
}

func TestAuthService_EnsureAdminConcurrent(t *testing.T) {
	svc, admins, _ := newAuthFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.EnsureAdmin(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := admins.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, jwtSvc := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx)
	require.NoError(t, err)

	res, err := svc.Login(ctx, dto.LoginDTO{Email: "Admin@BlissfullHimalaya.com ", Secret: testAdminSecret})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := jwtSvc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, testAdminEmail, claims.Email)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Password: testAdminSecret})
	assert.NoError(t, err, "секрет принимается и под ключом password")

	_, err = svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Secret: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "other@example.com", Secret: testAdminSecret})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_LoginRequiresExactlyOneAdmin(t *testing.T) {
	svc, admins, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Secret: testAdminSecret})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.EnsureAdmin(ctx)
	require.NoError(t, err)
	digest, err := utils.HashPassword(testAdminSecret)
	require.NoError(t, err)
	admins.Add(entities.Admin{ID: "second", Email: testAdminEmail, Password: digest})

	_, err = svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Secret: testAdminSecret})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginLockout(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Secret: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, dto.LoginDTO{Email: testAdminEmail, Secret: testAdminSecret})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}
