package finance

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
	staff.GET("/finance/incomes", h.ListIncomes)
	staff.POST("/finance/citas/:id/income", h.RecordCitaIncome)
	staff.POST("/finance/citas/:id/cotizada", h.MarkCitaCotizada)
	staff.GET("/finance/citas/registered", h.RegisteredCitas)
	staff.GET("/finance/expenses", h.ListGastos)
	staff.POST("/finance/expenses", h.RecordGasto)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/finance/balance", h.GetBalance)
	admin.GET("/finance/config", h.GetConfig)
	admin.PUT("/finance/config", h.SetConfig)
}

type transactionRequest struct {
	Monto       float64 `json:"monto"`
	Descripcion string  `json:"descripcion"`
	URL         *string `json:"url,omitempty"`
}

func (h *Handler) RecordCitaIncome(c echo.Context) error {
	citaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	createdBy, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))

	t, err := h.svc.RecordCitaIncome(c.Request().Context(), citaID, req.Monto, req.Descripcion, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) MarkCitaCotizada(c echo.Context) error {
	citaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkCitaCotizada(c.Request().Context(), citaID); err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cita marcada como cotizada"})
}

func (h *Handler) RegisteredCitas(c echo.Context) error {
	ids, err := h.svc.RegisteredCitas(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string][]uuid.UUID{"citas_ingresadas": ids})
}

func (h *Handler) RecordGasto(c echo.Context) error {
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	createdBy, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))

	t, err := h.svc.RecordGasto(c.Request().Context(), req.Monto, req.Descripcion, req.URL, createdBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) ListIncomes(c echo.Context) error {
	pg := pagination.FromContext(c)
	txs, total, err := h.svc.ListIncomes(c.Request().Context(), c.QueryParam("filtro"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(txs, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListGastos(c echo.Context) error {
	pg := pagination.FromContext(c)
	txs, total, err := h.svc.ListGastos(c.Request().Context(), c.QueryParam("filtro"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(txs, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetBalance(c echo.Context) error {
	balance, err := h.svc.GetBalance(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, balance)
}

func (h *Handler) GetConfig(c echo.Context) error {
	cfg, err := h.svc.GetConfig(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SetConfig(c echo.Context) error {
	var cfg Config
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetConfig(c.Request().Context(), &cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}
