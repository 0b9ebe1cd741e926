package webserver

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type pagedResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// OK writes a success envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

// Fail writes an error envelope with the given HTTP status.
func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message, Details: details},
	})
}

// Paged writes a page of rows plus the total match count.
func Paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Success:  true,
		Data:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ParsePagination reads page/perPage query params with sane bounds.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// ParseIDParam parses an int64 path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// HandleValidationError maps struct validation failures to a field-level
// error payload.
func HandleValidationError(c echo.Context, err error) error {
	if verrs, okv := err.(validator.ValidationErrors); okv {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields", fields)
	}
	return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", nil)
}
