package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/accounts"
	"shopizen/internal/domain"
	"shopizen/internal/webserver"
)

func registerUserRoutes() {
	webserver.AdminGET("/users", listUsers)
	webserver.AdminGET("/users/:id", getUser)
	webserver.AdminPOST("/users/:id/block", blockUser)
	webserver.AdminPOST("/users/:id/unblock", unblockUser)
	webserver.AdminDELETE("/users/:id", deleteUser)
}

func listUsers(c echo.Context) error {
	page, pageSize := webserver.ParsePagination(c)
	rows, total, err := env.Accounts.List(c.Request().Context(), accounts.ListFilter{
		Query:    c.QueryParam("q"),
		Role:     c.QueryParam("role"),
		Status:   c.QueryParam("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "REGISTRY_ERROR", "Failed to list users", nil)
	}
	for i := range rows {
		rows[i].Password = ""
	}
	return webserver.Paged(c, rows, total, page, pageSize)
}

func getUser(c echo.Context) error {
	acct, err := env.Accounts.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, accounts.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	}
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "REGISTRY_ERROR", "Failed to fetch user", nil)
	}
	acct.Password = ""
	return webserver.OK(c, acct)
}

func blockUser(c echo.Context) error {
	return setUserStatus(c, domain.AccountBlocked)
}

func unblockUser(c echo.Context) error {
	return setUserStatus(c, domain.AccountActive)
}

func setUserStatus(c echo.Context, status string) error {
	id := c.Param("id")
	if err := env.Accounts.UpdateStatus(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "REGISTRY_ERROR", "Failed to update user", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id, "status": status})
}

func deleteUser(c echo.Context) error {
	id := c.Param("id")
	if err := env.Accounts.Delete(c.Request().Context(), id); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "REGISTRY_ERROR", "Failed to delete user", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id})
}
