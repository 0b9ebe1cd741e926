package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/domain"
	"shopizen/internal/moderation"
	"shopizen/internal/webserver"
)

func registerRefundRoutes() {
	webserver.AdminGET("/refunds", listRefunds)
	webserver.AdminPOST("/refunds/:id/approve", approveRefund)
	webserver.AdminPOST("/refunds/:id/reject", rejectRefund)
}

func listRefunds(c echo.Context) error {
	page, pageSize := webserver.ParsePagination(c)
	rows, total := env.Moderation.Refunds(moderation.ListFilter{
		Query:    c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		Page:     page,
		PageSize: pageSize,
	})
	return webserver.Paged(c, rows, int64(total), page, pageSize)
}

func approveRefund(c echo.Context) error {
	return setRefundStatus(c, domain.RefundApproved)
}

func rejectRefund(c echo.Context) error {
	return setRefundStatus(c, domain.RefundRejected)
}

func setRefundStatus(c echo.Context, status string) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid refund ID", nil)
	}
	if err := env.Moderation.SetRefundStatus(id, status); err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Refund not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update refund", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id, "status": status})
}
