package shopapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"shopizen/internal/catalog"
	"shopizen/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/brands", listBrands)
}

func listProducts(c echo.Context) error {
	page, perPage := webserver.ParsePagination(c)
	f := catalog.Filter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		PriceMin: cast.ToFloat64(c.QueryParam("priceMin")),
		PriceMax: cast.ToFloat64(c.QueryParam("priceMax")),
		SortBy:   c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
		Page:     page,
		PerPage:  perPage,
	}
	rows, total := env.Catalog.Query(f)
	return webserver.Paged(c, rows, int64(total), page, perPage)
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

func listCategories(c echo.Context) error {
	return webserver.OK(c, env.Catalog.Categories())
}

func listBrands(c echo.Context) error {
	return webserver.OK(c, env.Catalog.Brands())
}
