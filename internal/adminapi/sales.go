package adminapi

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"shopizen/internal/domain"
	"shopizen/internal/webserver"
)

func registerSalesRoutes() {
	webserver.AdminGET("/sales/summary", salesSummary)
	webserver.AdminGET("/sales/export", salesExport)
}

// salesDay is one row of the daily revenue report. Cancelled and returned
// items are excluded from revenue but counted separately.
type salesDay struct {
	Date       string  `json:"date" csv:"date"`
	Orders     int     `json:"orders" csv:"orders"`
	ItemsSold  int     `json:"itemsSold" csv:"items_sold"`
	Revenue    float64 `json:"revenue" csv:"revenue"`
	Cancelled  int     `json:"cancelled" csv:"cancelled"`
	Returned   int     `json:"returned" csv:"returned"`
	CodPending float64 `json:"codPending" csv:"cod_pending"`
}

func buildSalesDays(orders []domain.Order) []*salesDay {
	byDate := make(map[string]*salesDay)
	for _, o := range orders {
		date := o.CreatedAt.Format("2006-01-02")
		day := byDate[date]
		if day == nil {
			day = &salesDay{Date: date}
			byDate[date] = day
		}
		day.Orders++
		for _, it := range o.Items {
			if it.StatusIndex == domain.StatusTerminal {
				switch it.Action {
				case domain.ActionReturn:
					day.Returned += it.Quantity
				default:
					day.Cancelled += it.Quantity
				}
				continue
			}
			day.ItemsSold += it.Quantity
			day.Revenue += it.Price * float64(it.Quantity)
			if o.PaymentMethod == domain.PaymentMethodCOD && o.PaymentStatus == domain.PaymentPending {
				day.CodPending += it.Price * float64(it.Quantity)
			}
		}
	}

	days := make([]*salesDay, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

func salesSummary(c echo.Context) error {
	all, err := env.Orders.AllOrders()
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to scan orders", nil)
	}
	days := buildSalesDays(all)

	var totalRevenue float64
	var totalOrders, totalItems int
	for _, d := range days {
		totalRevenue += d.Revenue
		totalOrders += d.Orders
		totalItems += d.ItemsSold
	}
	return webserver.OK(c, map[string]interface{}{
		"totalRevenue": totalRevenue,
		"totalOrders":  totalOrders,
		"totalItems":   totalItems,
		"days":         days,
	})
}

func salesExport(c echo.Context) error {
	all, err := env.Orders.AllOrders()
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to scan orders", nil)
	}
	days := buildSalesDays(all)

	data, err := gocsv.MarshalString(&days)
	if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build CSV", nil)
	}
	filename := fmt.Sprintf("sales-%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
