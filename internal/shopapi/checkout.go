package shopapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/webserver"
	"shopizen/pkg/idgen"
)

type checkoutSessionPayload struct {
	OrderID string `json:"orderId" validate:"required"`
}

type checkoutCallbackPayload struct {
	OrderID   string `json:"orderId" validate:"required"`
	Reference string `json:"reference"`
	Success   bool   `json:"success"`
}

func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout/session", createCheckoutSession)
	webserver.ApiPOST("/checkout/callback", checkoutCallback)
}

// createCheckoutSession stands in for the third-party hosted checkout: it
// hands back a session id and a redirect URL and takes no further part
// until the callback returns control.
func createCheckoutSession(c echo.Context) error {
	var payload checkoutSessionPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout request", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}

	o, err := env.Orders.Get(payload.OrderID)
	if err != nil {
		return orderError(c, err)
	}

	sessionID := fmt.Sprintf("cs_%d", idgen.NextID())
	return webserver.OK(c, map[string]interface{}{
		"sessionId":   sessionID,
		"amount":      o.TotalPrice,
		"email":       o.Customer.Email,
		"redirectUrl": "/pay/" + sessionID,
	})
}

// checkoutCallback receives the success/failure handed back by the hosted
// widget together with the payment reference.
func checkoutCallback(c echo.Context) error {
	var payload checkoutCallbackPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout result", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}

	o, err := env.Orders.SettlePayment(payload.OrderID, payload.Reference, payload.Success)
	if err != nil {
		return orderError(c, err)
	}
	return webserver.OK(c, o)
}
