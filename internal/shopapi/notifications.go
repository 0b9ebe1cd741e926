package shopapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/notify"
	"shopizen/internal/webserver"
)

func registerNotificationRoutes() {
	webserver.ApiGET("/notifications", listNotifications)
	webserver.ApiPOST("/notifications/:id/read", markNotificationRead)
	webserver.ApiPOST("/notifications/read-all", markAllNotificationsRead)
}

func listNotifications(c echo.Context) error {
	return webserver.OK(c, map[string]interface{}{
		"notifications": env.Notify.List(),
		"unreadCount":   env.Notify.UnreadCount(),
	})
}

func markNotificationRead(c echo.Context) error {
	if err := env.Notify.MarkRead(c.Param("id")); err != nil {
		return notifyError(c, err)
	}
	return webserver.OK(c, nil)
}

func markAllNotificationsRead(c echo.Context) error {
	if err := env.Notify.MarkAllRead(); err != nil {
		return notifyError(c, err)
	}
	return webserver.OK(c, nil)
}

func notifyError(c echo.Context, err error) error {
	if errors.Is(err, notify.ErrLoginRequired) {
		return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login first to view notifications", nil)
	}
	return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save notifications", nil)
}
