package appointment

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinic/internal/platform/auth"
	"github.com/clinicbase/clinic/internal/platform/validate"
	"github.com/clinicbase/clinic/pkg/civil"
	"github.com/clinicbase/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

func NewHandler(svc *Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "doctor", "receptionist"))
	g.GET("/appointments/availability", h.Availability)
	g.GET("/appointments", h.List)
	g.GET("/appointments/:id", h.Get)
	g.POST("/appointments", h.Book)
	g.PATCH("/appointments/:id/status", h.UpdateStatus)
}

// AvailabilityResponse is the booking window plus the remaining slots per
// day, already filtered to days that are still reachable.
type AvailabilityResponse struct {
	Window WeekWindow        `json:"window"`
	Days   []DayAvailability `json:"days"`
}

func (h *Handler) Availability(c echo.Context) error {
	practitionerID, err := uuid.Parse(c.QueryParam("practitioner_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid practitioner_id")
	}

	today := h.svc.Today()
	ref := today
	if s := c.QueryParam("date"); s != "" {
		ref, err = civil.ParseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}

	window := WeekOf(ref)
	switch c.QueryParam("nav") {
	case "next":
		window = window.Next()
	case "prev":
		window = window.Prev()
	}

	days, err := h.svc.Availability(c.Request().Context(), practitionerID, window)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute availability")
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		Window: window,
		Days:   FilterDays(days, window, today),
	})
}

func (h *Handler) Book(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	a, err := h.svc.Book(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateStatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, in.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByOrganisation(c.Request().Context(), orgID, c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
