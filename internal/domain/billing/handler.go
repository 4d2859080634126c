package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinic/internal/platform/auth"
	"github.com/clinicbase/clinic/internal/platform/validate"
	"github.com/clinicbase/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "doctor", "receptionist"))
	read.GET("/invoices", h.ListInvoices)
	read.GET("/invoices/:id", h.GetInvoice)

	write := api.Group("", auth.RequireRole("admin", "receptionist"))
	write.POST("/invoices", h.CreateInvoice)
	write.POST("/invoices/:id/archive", h.ArchiveInvoice)
	write.DELETE("/invoices/:id", h.DeleteInvoice)
	write.POST("/invoices/:id/lines", h.AddLine)
	write.PUT("/invoice-lines/:id", h.UpdateLine)
	write.DELETE("/invoice-lines/:id", h.DeleteLine)
	write.POST("/payments", h.RecordPayment)
}

func (h *Handler) CreateInvoice(c echo.Context) error {
	var in CreateInvoiceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	inv, err := h.svc.CreateInvoice(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ArchiveInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.ArchiveInvoice(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteInvoice(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListInvoices(c echo.Context) error {
	orgID, err := uuid.Parse(c.QueryParam("organisation_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInvoicesByOrganisation(c.Request().Context(), orgID, c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch invoices")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddLine(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in LineInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	inv, err := h.svc.AddLine(c.Request().Context(), invoiceID, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) UpdateLine(c echo.Context) error {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in LineInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	inv, err := h.svc.UpdateLine(c.Request().Context(), lineID, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteLine(c echo.Context) error {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.DeleteLine(c.Request().Context(), lineID)
	if err != nil {
		if errors.Is(err, ErrLineHasPayments) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) RecordPayment(c echo.Context) error {
	var in RecordPaymentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errs := validate.Struct(in); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}
	p, err := h.svc.RecordPayment(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}
