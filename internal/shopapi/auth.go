package shopapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shopizen/internal/accounts"
	"shopizen/internal/session"
	"shopizen/internal/webserver"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required"`
}

type profilePayload struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/login", login)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiGET("/auth/me", me)
	webserver.ApiPOST("/auth/register", register)
	webserver.ApiPUT("/auth/profile", updateProfile)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}

	principal, err := env.Session.Login(c.Request().Context(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, session.ErrNotRegistered):
		return webserver.Fail(c, http.StatusUnauthorized, "NOT_REGISTERED", "This email is not registered", nil)
	case errors.Is(err, session.ErrBadPassword):
		return webserver.Fail(c, http.StatusUnauthorized, "INCORRECT_PASSWORD", "Incorrect password", nil)
	case errors.Is(err, session.ErrBlocked):
		return webserver.Fail(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "Account is blocked", nil)
	case err != nil:
		return webserver.Fail(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed, try again later", nil)
	}

	token, err := webserver.MintToken(env.Cfg.Web.Secret, principal, 8*time.Hour)
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed, try again later", nil)
	}
	return webserver.OK(c, map[string]interface{}{"token": token, "user": principal})
}

func logout(c echo.Context) error {
	env.Session.Logout()
	return webserver.OK(c, nil)
}

func me(c echo.Context) error {
	p := env.Session.Current()
	if p == nil {
		return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Not logged in", nil)
	}
	return webserver.OK(c, p)
}

func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	if !session.ValidPassword(payload.Password) {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_PASSWORD",
			"Password must contain a lowercase, an uppercase, a digit and a symbol", nil)
	}

	acct, err := env.Accounts.Register(c.Request().Context(), payload.Name, payload.Email, payload.Mobile, payload.Password)
	switch {
	case errors.Is(err, accounts.ErrEmailTaken):
		return webserver.Fail(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered", nil)
	case errors.Is(err, accounts.ErrInvalidInput):
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing registration fields", nil)
	case err != nil:
		// No retry: surface a generic message and abandon.
		return webserver.Fail(c, http.StatusBadGateway, "REGISTRATION_FAILED", "Registration failed, try again later", nil)
	}
	return webserver.OK(c, acct.Principal())
}

func updateProfile(c echo.Context) error {
	p := env.Session.Current()
	if p == nil {
		return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login first to update your profile", nil)
	}
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", nil)
	}
	if payload.Password != "" && !session.ValidPassword(payload.Password) {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_PASSWORD",
			"Password must contain a lowercase, an uppercase, a digit and a symbol", nil)
	}

	acct, err := env.Accounts.UpdateProfile(c.Request().Context(), p.ID, payload.Name, payload.Mobile, payload.Password)
	if errors.Is(err, accounts.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
	}
	if err != nil {
		return webserver.Fail(c, http.StatusBadGateway, "UPDATE_FAILED", "Profile update failed, try again later", nil)
	}
	return webserver.OK(c, acct.Principal())
}
