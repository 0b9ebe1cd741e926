package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"shopizen/internal/catalog"
	"shopizen/internal/domain"
	"shopizen/internal/webserver"
)

type productPayload struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Brand       string   `json:"brand" validate:"omitempty,max=100"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	SubCategory string   `json:"subCategory" validate:"omitempty,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	OldPrice    float64  `json:"oldPrice" validate:"gte=0"`
	Discount    int      `json:"discount" validate:"gte=0,lte=100"`
	Stock       *int     `json:"stock"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.AdminGET("/products", listProducts)
	webserver.AdminGET("/products/:id", getProduct)
	webserver.AdminPOST("/products", createProduct)
	webserver.AdminPUT("/products/:id", updateProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := webserver.ParsePagination(c)

	// whitelist allowed sort fields
	allowed := map[string]bool{
		"": true, "id": true, "name": true, "price": true, "rating": true, "discount": true,
	}
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	if !allowed[sortField] {
		sortField = "id"
	}
	orderDir := strings.ToLower(strings.TrimSpace(c.QueryParam("order")))
	if orderDir != "asc" && orderDir != "desc" {
		orderDir = "desc"
	}

	rows, total := env.Catalog.Query(catalog.Filter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		PriceMin: cast.ToFloat64(c.QueryParam("priceMin")),
		PriceMax: cast.ToFloat64(c.QueryParam("priceMax")),
		SortBy:   sortField,
		Order:    orderDir,
		Page:     page,
		PerPage:  pageSize,
	})
	return webserver.Paged(c, rows, int64(total), page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := env.Catalog.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return webserver.OK(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	p, err := env.Catalog.Create(payloadToProduct(payload, 0))
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to create product", nil)
	}
	return webserver.OK(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if _, err := env.Catalog.Get(id); errors.Is(err, catalog.ErrNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	p, err := env.Catalog.Update(payloadToProduct(payload, id))
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update product", nil)
	}
	return webserver.OK(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := env.Catalog.Delete(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete product", nil)
	}
	return webserver.OK(c, map[string]interface{}{"id": id})
}

func payloadToProduct(payload productPayload, id int64) domain.Product {
	stock := 0
	if payload.Stock != nil {
		stock = *payload.Stock
	}
	return domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(payload.Name),
		Brand:       strings.TrimSpace(payload.Brand),
		Category:    strings.TrimSpace(payload.Category),
		SubCategory: strings.TrimSpace(payload.SubCategory),
		Price:       payload.Price,
		OldPrice:    payload.OldPrice,
		Discount:    payload.Discount,
		Stock:       stock,
		Images:      payload.Images,
		Description: payload.Description,
	}
}
