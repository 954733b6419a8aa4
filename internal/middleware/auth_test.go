package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipnivasa/realtime/internal/auth"
	"github.com/zipnivasa/realtime/internal/domain"
)

func setupAuthTest(t *testing.T) (*echo.Echo, *auth.Verifier) {
	t.Helper()
	verifier, err := auth.NewVerifier("test-secret")
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		ident, ok := IdentityFrom(c)
		require.True(t, ok, "identity should be set by the middleware")
		return c.String(http.StatusOK, "hello "+ident.UserID)
	}, Auth(verifier))

	return e, verifier
}

func TestAuth_AcceptsBearerHeader(t *testing.T) {
	e, verifier := setupAuthTest(t)

	token, err := verifier.Issue("user-1", domain.RoleTenant, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestAuth_AcceptsQueryToken(t *testing.T) {
	e, verifier := setupAuthTest(t)

	token, err := verifier.Issue("user-2", domain.RoleMessOwner, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-2")
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	e, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectsInvalidToken(t *testing.T) {
	e, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bogus")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
