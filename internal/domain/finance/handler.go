package finance

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin"))
	g.GET("/finance/revenue", h.Revenue)
	g.GET("/finance/services", h.Services)
	g.GET("/finance/stats", h.Stats)
}

func (h *Handler) Revenue(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	period := c.QueryParam("period")
	if period == "" {
		period = PeriodWeek
	}
	report, err := h.svc.Revenue(c.Request().Context(), orgID, period, c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Services(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	year := 0
	if s := c.QueryParam("year"); s != "" {
		year, err = strconv.Atoi(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
	}
	breakdown, err := h.svc.ServiceBreakdown(c.Request().Context(), orgID, year)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch service revenue")
	}
	return c.JSON(http.StatusOK, breakdown)
}

func (h *Handler) Stats(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	stats, err := h.svc.Stats(c.Request().Context(), orgID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch finance stats")
	}
	return c.JSON(http.StatusOK, stats)
}
