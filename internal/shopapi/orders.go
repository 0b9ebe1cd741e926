package shopapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shopizen/internal/catalog"
	"shopizen/internal/domain"
	"shopizen/internal/order"
	"shopizen/internal/webserver"
)

type placeOrderPayload struct {
	Customer      domain.Customer `json:"customer"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
	// BuyNow checks out a single product directly, bypassing the cart.
	BuyNow    bool  `json:"buyNow"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type reasonPayload struct {
	Reason string `json:"reason"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiGET("/orders/:id/items/:itemId", getOrderItem)
	webserver.ApiPOST("/orders/:id/items/:itemId/cancel", cancelOrderItem)
	webserver.ApiPOST("/orders/:id/items/:itemId/return", returnOrderItem)
	webserver.ApiPOST("/orders/:id/track", startTracking)
	webserver.ApiDELETE("/orders/:id/track", stopTracking)
}

func listOrders(c echo.Context) error {
	orders, err := env.Orders.List()
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, orders)
}

func placeOrder(c echo.Context) error {
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}

	var lines []domain.CartLine
	if payload.BuyNow {
		p, err := env.Catalog.Get(payload.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		if err != nil {
			return webserver.Fail(c, http.StatusInternalServerError, "CATALOG_ERROR", "Failed to load product", nil)
		}
		line := domain.LineFromProduct(*p)
		if payload.Quantity > 1 {
			line.Quantity = payload.Quantity
		}
		lines = []domain.CartLine{line}
	} else {
		lines = env.Cart.Lines()
	}

	o, err := env.Orders.Place(payload.Customer, lines, payload.PaymentMethod, payload.BuyNow)
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, o)
}

func getOrder(c echo.Context) error {
	o, err := env.Orders.Get(c.Param("id"))
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, o)
}

func getOrderItem(c echo.Context) error {
	item, err := env.Orders.Item(c.Param("id"), c.Param("itemId"))
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, item)
}

func cancelOrderItem(c echo.Context) error {
	return closeOrderItem(c, env.Orders.Cancel)
}

func returnOrderItem(c echo.Context) error {
	return closeOrderItem(c, env.Orders.Return)
}

func closeOrderItem(c echo.Context, op func(orderID, itemID, reason string) (*domain.Order, error)) error {
	var payload reasonPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", nil)
	}
	o, err := op(c.Param("id"), c.Param("itemId"), payload.Reason)
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, o)
}

// startTracking begins simulated carrier progress for an order. Repeated
// calls while a tracker is already running are no-ops.
func startTracking(c echo.Context) error {
	p := env.Session.Current()
	if p == nil {
		return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login to track your order", nil)
	}
	orderID := c.Param("id")

	trackersMu.Lock()
	defer trackersMu.Unlock()
	if _, running := trackers[orderID]; running {
		return webserver.OK(c, map[string]interface{}{"tracking": true})
	}
	interval := time.Duration(env.Cfg.Shop.TrackInterval) * time.Second
	t, err := env.Orders.Track(trackerCtx, p.ID, orderID, interval)
	if err != nil {
		return orderError(c, err)
	}
	trackers[orderID] = t
	go func() {
		<-t.Done()
		trackersMu.Lock()
		delete(trackers, orderID)
		trackersMu.Unlock()
	}()
	return webserver.OK(c, map[string]interface{}{"tracking": true})
}

func stopTracking(c echo.Context) error {
	orderID := c.Param("id")
	trackersMu.Lock()
	t, running := trackers[orderID]
	trackersMu.Unlock()
	if running {
		t.Stop()
	}
	return webserver.OK(c, map[string]interface{}{"tracking": false})
}

func orderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, order.ErrLoginRequired):
		return webserver.Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login first to view orders", nil)
	case errors.Is(err, order.ErrNotFound):
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	case errors.Is(err, order.ErrItemNotFound):
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Order item not found", nil)
	case errors.Is(err, order.ErrEmptyOrder):
		return webserver.Fail(c, http.StatusBadRequest, "EMPTY_ORDER", "No items to check out", nil)
	case errors.Is(err, order.ErrMissingDetails):
		return webserver.Fail(c, http.StatusBadRequest, "MISSING_DETAILS", "Fill all required details before confirming", nil)
	case errors.Is(err, order.ErrReasonRequired):
		return webserver.Fail(c, http.StatusBadRequest, "REASON_REQUIRED", "Please provide a reason", nil)
	case errors.Is(err, order.ErrTerminalItem):
		return webserver.Fail(c, http.StatusConflict, "ALREADY_CLOSED", "Item already cancelled or returned", nil)
	case errors.Is(err, order.ErrNotDelivered):
		return webserver.Fail(c, http.StatusConflict, "NOT_DELIVERED", "Return is only available after delivery", nil)
	case errors.Is(err, order.ErrPaymentSettled):
		return webserver.Fail(c, http.StatusConflict, "PAYMENT_SETTLED", "Payment is not awaiting a gateway result", nil)
	default:
		return webserver.Fail(c, http.StatusInternalServerError, "ORDER_ERROR", "Order operation failed", nil)
	}
}
