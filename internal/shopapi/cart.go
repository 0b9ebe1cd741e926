package shopapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/catalog"
	"shopizen/internal/webserver"
)

type cartItemPayload struct {
	ProductID int64 `json:"productId" validate:"required"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiDELETE("/cart/items/:id", removeCartItem)
	webserver.ApiPOST("/cart/items/:id/increase", increaseCartItem)
	webserver.ApiPOST("/cart/items/:id/decrease", decreaseCartItem)
	webserver.ApiDELETE("/cart", clearCart)
}

func getCart(c echo.Context) error {
	items, price := env.Cart.Totals()
	return webserver.OK(c, map[string]interface{}{
		"lines":      env.Cart.Lines(),
		"totalItems": items,
		"totalPrice": price,
	})
}

func addCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	p, err := env.Catalog.Get(payload.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := env.Cart.Add(*p); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save cart", nil)
	}
	return getCart(c)
}

func removeCartItem(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := env.Cart.Remove(id); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save cart", nil)
	}
	return getCart(c)
}

func increaseCartItem(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := env.Cart.Increase(id); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save cart", nil)
	}
	return getCart(c)
}

func decreaseCartItem(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := env.Cart.Decrease(id); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save cart", nil)
	}
	return getCart(c)
}

func clearCart(c echo.Context) error {
	if err := env.Cart.Clear(); err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save cart", nil)
	}
	return webserver.OK(c, nil)
}
