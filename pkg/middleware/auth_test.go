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

	"cmms-system/pkg/constants"
	"cmms-system/pkg/service"
	"cmms-system/pkg/utils"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret-key", time.Hour, 24*time.Hour, zap.NewNop())
	return NewAuthMiddleware(jwtSvc, zap.NewNop()), jwtSvc
}

func doRequest(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		role, err := utils.GetUserRoleFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"user_id": userID, "role": role})
	})
	return rec, handler(c)
}

func TestAuthMissingHeader(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	rec, err := doRequest(mw.Auth, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	rec, err := doRequest(mw.Auth, "Token abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	rec, err := doRequest(mw.Auth, "Bearer not-a-jwt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsRefreshToken(t *testing.T) {
	mw, jwtSvc := newTestMiddleware(t)
	_, refreshToken, err := jwtSvc.GenerateTokens(1, constants.RoleAdmin)
	require.NoError(t, err)

	rec, err := doRequest(mw.Auth, "Bearer "+refreshToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidToken(t *testing.T) {
	mw, jwtSvc := newTestMiddleware(t)
	accessToken, _, err := jwtSvc.GenerateTokens(42, constants.RoleTechnician)
	require.NoError(t, err)

	rec, err := doRequest(mw.Auth, "Bearer "+accessToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"technician"`)
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	foreignSvc := service.NewJWTService("other-secret", time.Hour, 24*time.Hour, zap.NewNop())
	accessToken, _, err := foreignSvc.GenerateTokens(1, constants.RoleAdmin)
	require.NoError(t, err)

	rec, err := doRequest(mw.Auth, "Bearer "+accessToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	mw, jwtSvc := newTestMiddleware(t)

	chain := func(next echo.HandlerFunc) echo.HandlerFunc {
		return mw.Auth(mw.RequireAdmin(next))
	}

	adminToken, _, err := jwtSvc.GenerateTokens(1, constants.RoleAdmin)
	require.NoError(t, err)
	rec, err := doRequest(chain, "Bearer "+adminToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	techToken, _, err := jwtSvc.GenerateTokens(2, constants.RoleTechnician)
	require.NoError(t, err)
	rec, err = doRequest(chain, "Bearer "+techToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
