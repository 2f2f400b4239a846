package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/platform/auth"
	"github.com/clinicops/clinic-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleReception))
	staff.GET("/invoices", h.ListInvoices)
	staff.POST("/invoices", h.CreateInvoice)
	staff.GET("/invoices/:id", h.GetInvoice)
	staff.DELETE("/invoices/:id", h.DeleteInvoice)
	staff.GET("/patients/:id/invoices", h.ListPatientInvoices)
	staff.GET("/invoices/config/series", h.GetSeriesConfig)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.PUT("/invoices/config/series", h.SetSeriesConfig)
}

type createInvoiceRequest struct {
	CitaID uuid.UUID `json:"cita"`
}

func (h *Handler) CreateInvoice(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	createdBy, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))

	inv, err := h.svc.CreateInvoice(c.Request().Context(), req.CitaID, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "appointment not found")
		case errors.Is(err, ErrNotBillable):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyInvoiced):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
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
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ListInvoices(c echo.Context) error {
	pg := pagination.FromContext(c)
	invoices, total, err := h.svc.ListInvoices(c.Request().Context(),
		c.QueryParam("filtro"), c.QueryParam("fecha"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(invoices, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatientInvoices(c echo.Context) error {
	pacienteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	invoices, total, err := h.svc.ListByPatient(c.Request().Context(), pacienteID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(invoices, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteInvoice(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSeriesConfig(c echo.Context) error {
	cfg, err := h.svc.GetSeriesConfig(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SetSeriesConfig(c echo.Context) error {
	var cfg SeriesConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetSeriesConfig(c.Request().Context(), cfg.NumeroInicial); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}
