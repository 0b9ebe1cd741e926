package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/config"
	"shopizen/internal/domain"
)

func testConfig() *config.AppConfig {
	cfg := config.DefaultAppConfig()
	cfg.Web.Secret = "test-secret"
	return cfg
}

func adminToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := MintToken(secret, &domain.Principal{ID: "admin", Name: "Administrator", Role: domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAdminGateRejectsMissingToken(t *testing.T) {
	ws := Init(testConfig())
	AdminGET("/ping", func(c echo.Context) error { return OK(c, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGateRejectsUserRole(t *testing.T) {
	ws := Init(testConfig())
	AdminGET("/ping", func(c echo.Context) error { return OK(c, "pong") })

	token, err := MintToken("test-secret", &domain.Principal{ID: "u1", Role: domain.RoleUser}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGateAcceptsAdmin(t *testing.T) {
	ws := Init(testConfig())
	AdminGET("/ping", func(c echo.Context) error {
		p := TokenPrincipal(c)
		require.NotNil(t, p)
		assert.Equal(t, "admin", p.ID)
		return OK(c, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t, "test-secret"))
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestAdminGateRejectsExpiredToken(t *testing.T) {
	ws := Init(testConfig())
	AdminGET("/ping", func(c echo.Context) error { return OK(c, "pong") })

	token, err := MintToken("test-secret", &domain.Principal{ID: "admin", Role: domain.RoleAdmin}, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStorefrontRoutesNeedNoToken(t *testing.T) {
	ws := Init(testConfig())
	ApiGET("/ping", func(c echo.Context) error { return OK(c, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParsePagination(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=3&perPage=50", nil), httptest.NewRecorder())
	page, pageSize := ParsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=-1&perPage=9999", nil), httptest.NewRecorder())
	page, pageSize = ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}
