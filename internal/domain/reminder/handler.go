package reminder

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinic-server/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleReception))
	staff.POST("/reminders/send", h.Send)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/reminders/run-daily", h.RunDaily)
}

type sendRequest struct {
	CitaIDs []uuid.UUID `json:"cita_ids"`
}

func (h *Handler) Send(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.CitaIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cita_ids is required")
	}
	results, err := h.svc.SendByIDs(c.Request().Context(), req.CitaIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) RunDaily(c echo.Context) error {
	results, err := h.svc.SendDailyReminders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}
