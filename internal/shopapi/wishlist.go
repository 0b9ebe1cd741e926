package shopapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/catalog"
	"shopizen/internal/domain"
	"shopizen/internal/webserver"
	"shopizen/internal/wishlist"
)

func registerWishlistRoutes() {
	webserver.ApiGET("/wishlist", getWishlist)
	webserver.ApiPOST("/wishlist", addWishlistItem)
	webserver.ApiPOST("/wishlist/toggle", toggleWishlistItem)
	webserver.ApiDELETE("/wishlist/:id", removeWishlistItem)
}

func getWishlist(c echo.Context) error {
	return webserver.OK(c, env.Wishlist.Entries())
}

func addWishlistItem(c echo.Context) error {
	return wishlistMutation(c, env.Wishlist.Add)
}

func toggleWishlistItem(c echo.Context) error {
	return wishlistMutation(c, env.Wishlist.Toggle)
}

func wishlistMutation(c echo.Context, op func(p domain.Product) error) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse wishlist item", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	p, err := env.Catalog.Get(payload.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := op(*p); err != nil {
		if errors.Is(err, wishlist.ErrLoginRequired) {
			// No anonymous wishlist: callers route to the login page.
			return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login first to save products", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save wishlist", nil)
	}
	return webserver.OK(c, env.Wishlist.Entries())
}

func removeWishlistItem(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := env.Wishlist.Remove(id); err != nil {
		if errors.Is(err, wishlist.ErrLoginRequired) {
			return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login first to save products", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save wishlist", nil)
	}
	return webserver.OK(c, env.Wishlist.Entries())
}
