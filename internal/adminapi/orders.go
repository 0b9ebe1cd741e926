package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shopizen/internal/domain"
	"shopizen/internal/order"
	"shopizen/internal/webserver"
)

func registerOrderRoutes() {
	webserver.AdminGET("/orders", listAllOrders)
	webserver.AdminGET("/orders/:userId/:id", getUserOrder)
	webserver.AdminPOST("/orders/:userId/:id/advance", advanceUserOrder)
}

// orderRow flattens an order with its derived status for the console table.
type orderRow struct {
	domain.Order
	Status string `json:"status"`
}

func listAllOrders(c echo.Context) error {
	page, pageSize := webserver.ParsePagination(c)

	all, err := env.Orders.AllOrders()
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to scan orders", nil)
	}

	status := strings.TrimSpace(c.QueryParam("status"))
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	filtered := all[:0:0]
	for _, o := range all {
		if status != "" && o.Status() != status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.UserID), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Email), q) {
			continue
		}
		filtered = append(filtered, o)
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	stop := start + pageSize
	if stop > total {
		stop = total
	}

	rows := make([]orderRow, 0, stop-start)
	for _, o := range filtered[start:stop] {
		rows = append(rows, orderRow{Order: o, Status: o.Status()})
	}
	return webserver.Paged(c, rows, int64(total), page, pageSize)
}

func getUserOrder(c echo.Context) error {
	o, err := env.Orders.GetFor(c.Param("userId"), c.Param("id"))
	if errors.Is(err, order.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to fetch order", nil)
	}
	return webserver.OK(c, orderRow{Order: *o, Status: o.Status()})
}

// advanceUserOrder moves every pending item one delivery step forward, the
// same operation the background sweep performs.
func advanceUserOrder(c echo.Context) error {
	o, settled, err := env.Orders.AdvanceFor(c.Param("userId"), c.Param("id"))
	if errors.Is(err, order.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to advance order", nil)
	}
	return webserver.OK(c, map[string]interface{}{
		"order":   orderRow{Order: *o, Status: o.Status()},
		"settled": settled,
	})
}
