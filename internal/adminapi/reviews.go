package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopizen/internal/domain"
	"shopizen/internal/moderation"
	"shopizen/internal/webserver"
)

func registerReviewRoutes() {
	webserver.AdminGET("/reviews", listReviews)
	webserver.AdminPOST("/reviews/:id/approve", approveReview)
	webserver.AdminPOST("/reviews/:id/reject", rejectReview)
	webserver.AdminDELETE("/reviews/:id", deleteReview)
}

func listReviews(c echo.Context) error {
	page, pageSize := webserver.ParsePagination(c)
	rows, total := env.Moderation.Reviews(moderation.ListFilter{
		Query:    c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		Page:     page,
		PageSize: pageSize,
	})
	return webserver.Paged(c, rows, int64(total), page, pageSize)
}

func approveReview(c echo.Context) error {
	return setReviewStatus(c, domain.ReviewApproved)
}

func rejectReview(c echo.Context) error {
	return setReviewStatus(c, domain.ReviewRejected)
}

func setReviewStatus(c echo.Context, status string) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}
	if err := env.Moderation.SetReviewStatus(id, status); err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update review", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id, "status": status})
}

func deleteReview(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}
	if err := env.Moderation.DeleteReview(id); err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete review", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id})
}
