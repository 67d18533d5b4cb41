package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-cms/pkg/service"
	"travel-cms/pkg/utils"
)

func newProtectedServer(jwtSvc service.JWTService) *echo.Echo {
	e := echo.New()
	auth := NewAuthMiddleware(jwtSvc, zap.NewNop())
	e.GET("/private", func(c echo.Context) error {
		email, err := utils.GetAdminEmailFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, err, zap.NewNop())
		}
		return c.String(http.StatusOK, email)
	}, auth.Auth)
	return e
}

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", time.Hour)
	e := newProtectedServer(jwtSvc)

	token, err := jwtSvc.GenerateToken("admin@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", token, http.StatusUnauthorized},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "admin@example.com", rec.Body.String())
			}
		})
	}
}

func TestRecover(t *testing.T) {
	e := echo.New()
	e.Use(Recover(zap.NewNop()))
	e.GET("/panic", func(echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":false`)
}
