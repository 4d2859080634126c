package catalog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinic/internal/platform/auth"
	"github.com/clinicbase/clinic/internal/platform/validate"
	"github.com/clinicbase/clinic/pkg/pagination"
)

type Handler struct {
	svc *Svc
}

func NewHandler(svc *Svc) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "doctor", "receptionist"))
	read.GET("/services", h.List)
	read.GET("/services/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/services", h.Create)
	write.PUT("/services/:id", h.Update)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	svc, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, svc)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	svc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, svc)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	svc, err := h.svc.Update(c.Request().Context(), id, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, svc)
}

func (h *Handler) List(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	activeOnly := c.QueryParam("active") == "true"
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByOrganisation(c.Request().Context(), orgID, activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch services")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
