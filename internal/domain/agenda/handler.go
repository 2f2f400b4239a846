package agenda

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinic-server/internal/platform/auth"
	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleReception))
	staff.GET("/agenda/week", h.Week)
	staff.GET("/agenda/month", h.Month)
	staff.GET("/agenda/export.ics", h.ExportICS)
}

func parseRef(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("ref")
	if raw == "" {
		return time.Now(), nil
	}
	return calendar.ParseDate(raw)
}

func parseWorkerID(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("worker_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *Handler) Week(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ref must be YYYY-MM-DD")
	}
	workerID, err := parseWorkerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker_id")
	}
	view, err := h.svc.Week(c.Request().Context(), ref, workerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Month(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ref must be YYYY-MM-DD")
	}
	workerID, err := parseWorkerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker_id")
	}
	view, err := h.svc.Month(c.Request().Context(), ref, workerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ExportICS(c echo.Context) error {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		// Default to the month around today.
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		from, to = calendar.DateKey(first), calendar.DateKey(last)
	}
	workerID, err := parseWorkerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker_id")
	}
	feed, err := h.svc.ExportICS(c.Request().Context(), from, to, workerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="agenda.ics"`)
	return c.Blob(http.StatusOK, "text/calendar", []byte(feed))
}
