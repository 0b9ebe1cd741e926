package adminapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shopizen/internal/webserver"
)

// The store browser exposes the raw key-value layer for support work:
// listing keys by prefix, dumping a blob, deleting a blob.

func registerStoreRoutes() {
	webserver.AdminGET("/store/keys", listStoreKeys)
	webserver.AdminGET("/store/blob", getStoreBlob)
	webserver.AdminDELETE("/store/blob", deleteStoreBlob)
}

func listStoreKeys(c echo.Context) error {
	keys, err := env.Store.Keys(c.QueryParam("prefix"))
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to list keys", nil)
	}
	return webserver.OK(c, keys)
}

func getStoreBlob(c echo.Context) error {
	key := strings.TrimSpace(c.QueryParam("key"))
	if key == "" {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Key is required", nil)
	}
	var value json.RawMessage
	found, err := env.Store.Get(key, &value)
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to read key", nil)
	}
	if !found {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Key not found", nil)
	}
	return webserver.OK(c, map[string]interface{}{"key": key, "value": value})
}

func deleteStoreBlob(c echo.Context) error {
	key := strings.TrimSpace(c.QueryParam("key"))
	if key == "" {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Key is required", nil)
	}
	if err := env.Store.Delete(key); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete key", nil)
	}
	return webserver.OK(c, map[string]interface{}{"key": key})
}
