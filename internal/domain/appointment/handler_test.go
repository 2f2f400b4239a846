package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := NewService(newMockRepo(), 25)
	return NewHandler(svc), echo.New()
}

func TestHandler_CreateAppointment(t *testing.T) {
	h, e := newTestHandler()

	body := `{"fecha":"2026-09-01","comenzar":"10:00","finalizar":"11:00","descripcion":"revisión"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Precio != 25 {
		t.Errorf("expected defaulted precio 25, got %v", a.Precio)
	}
	if a.ID == uuid.Nil {
		t.Error("expected assigned id in response")
	}
}

func TestHandler_CreateAppointment_Conflict(t *testing.T) {
	h, e := newTestHandler()

	first := validAppt()
	if err := h.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"fecha":"2026-09-01","comenzar":"10:30","finalizar":"11:30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateAppointment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_ListAppointments_ExplicitRange(t *testing.T) {
	h, e := newTestHandler()

	inRange := validAppt()
	h.svc.CreateAppointment(context.Background(), inRange)

	outside := validAppt()
	outside.Fecha = "2026-10-15"
	h.svc.CreateAppointment(context.Background(), outside)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?from=2026-09-01&to=2026-09-07", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var appts []Appointment
	json.Unmarshal(rec.Body.Bytes(), &appts)
	if len(appts) != 1 {
		t.Errorf("expected 1 appointment in range, got %d", len(appts))
	}
}

func TestHandler_ListAppointments_BadFilter(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?filter_type=ayer", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListAppointments(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetAppointment_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetAppointment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_DeleteAppointment(t *testing.T) {
	h, e := newTestHandler()

	a := validAppt()
	h.svc.CreateAppointment(context.Background(), a)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.DeleteAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_PriceConfig(t *testing.T) {
	h, e := newTestHandler()

	body := `{"precio_global":35}`
	req := httptest.NewRequest(http.MethodPut, "/api/appointments/config/price", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SetPriceConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/config/price", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := h.GetPriceConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cfg PriceConfig
	json.Unmarshal(rec.Body.Bytes(), &cfg)
	if cfg.PrecioGlobal != 35 {
		t.Errorf("expected stored precio_global 35, got %v", cfg.PrecioGlobal)
	}
}
