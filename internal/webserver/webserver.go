// Package webserver hosts the HTTP API: storefront routes under /api and
// the role-gated admin console under /admin/api.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"shopizen/config"
	"shopizen/internal/domain"
)

const principalContextKey = "shopizen_principal"

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
	adm  *echo.Group
}

var server *WebServer

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the singleton server with logging, recovery and the admin
// JWT gate. Routes are registered afterwards by the api packages.
func Init(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &structValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))

	ws := &WebServer{cfg: cfg, root: e}
	ws.api = e.Group("/api")
	ws.adm = e.Group("/admin/api", jwtMiddleware(cfg.Web.Secret, domain.RoleAdmin))
	server = ws
	return ws
}

func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.L().Info("webserver listening", zap.String("addr", addr))
	return ws.root.Start(addr)
}

// Echo exposes the underlying engine for tests.
func (ws *WebServer) Echo() *echo.Echo { return ws.root }

// Storefront route registration.
func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

// Admin route registration; everything behind the role gate.
func AdminGET(path string, h echo.HandlerFunc)    { server.adm.GET(path, h) }
func AdminPOST(path string, h echo.HandlerFunc)   { server.adm.POST(path, h) }
func AdminPUT(path string, h echo.HandlerFunc)    { server.adm.PUT(path, h) }
func AdminDELETE(path string, h echo.HandlerFunc) { server.adm.DELETE(path, h) }

type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MintToken signs a session token for an authenticated principal.
func MintToken(secret string, p *domain.Principal, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		Name: p.Name,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func jwtMiddleware(secret, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
				return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
			}
			claims := &sessionClaims{}
			token, err := jwt.ParseWithClaims(auth[len(prefix):], claims, func(t *jwt.Token) (interface{}, error) {
				if _, okm := t.Method.(*jwt.SigningMethodHMAC); !okm {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
			}
			if requiredRole != "" && claims.Role != requiredRole {
				return Fail(c, http.StatusForbidden, "FORBIDDEN", "Insufficient role", nil)
			}
			c.Set(principalContextKey, &domain.Principal{
				ID:   claims.Subject,
				Name: claims.Name,
				Role: claims.Role,
			})
			return next(c)
		}
	}
}

// TokenPrincipal returns the principal resolved from the request token,
// nil on unauthenticated routes.
func TokenPrincipal(c echo.Context) *domain.Principal {
	if p, okc := c.Get(principalContextKey).(*domain.Principal); okc {
		return p
	}
	return nil
}
