// Package agenda renders the scheduling grid the front-end paints: weekly and
// monthly views with hourly slots, plus an iCalendar export.
package agenda

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

// WeekView is one Monday-to-Sunday page of the agenda. Slots is keyed by
// "YYYY-MM-DD-HH:00"; Prev/Next are the refs for paging.
type WeekView struct {
	Ref   string                      `json:"ref"`
	Prev  string                      `json:"prev"`
	Next  string                      `json:"next"`
	Days  []string                    `json:"days"`
	Hours []int                       `json:"hours"`
	Slots map[string][]calendar.Entry `json:"slots"`
}

// MonthView is one calendar-month page. Cells carries the grid layout:
// leading nulls pad the first row so day 1 lands under its weekday.
type MonthView struct {
	Ref   string                      `json:"ref"`
	Prev  string                      `json:"prev"`
	Next  string                      `json:"next"`
	Cells []*string                   `json:"cells"`
	Slots map[string][]calendar.Entry `json:"slots"`
}

type Service struct {
	appts appointment.Repository
}

func NewService(appts appointment.Repository) *Service {
	return &Service{appts: appts}
}

func (s *Service) entriesBetween(ctx context.Context, from, to string, workerID *uuid.UUID) ([]calendar.Entry, error) {
	appts, err := s.appts.ListRange(ctx, from, to, workerID)
	if err != nil {
		return nil, err
	}
	entries := make([]calendar.Entry, 0, len(appts))
	for _, a := range appts {
		entries = append(entries, a.ToEntry())
	}
	return entries, nil
}

// Week builds the weekly grid around ref.
func (s *Service) Week(ctx context.Context, ref time.Time, workerID *uuid.UUID) (*WeekView, error) {
	week := calendar.Week(ref)
	days := make([]string, len(week))
	for i, d := range week {
		days[i] = calendar.DateKey(d)
	}

	entries, err := s.entriesBetween(ctx, days[0], days[6], workerID)
	if err != nil {
		return nil, err
	}

	hours := calendar.WorkdayHours()
	slots := calendar.MapToSlots(entries, days, hours)

	view := &WeekView{
		Ref:   calendar.DateKey(ref),
		Prev:  calendar.DateKey(calendar.PrevWeek(ref)),
		Next:  calendar.DateKey(calendar.NextWeek(ref)),
		Days:  days,
		Hours: hourRows(hours),
		Slots: make(map[string][]calendar.Entry, len(slots)),
	}
	for k, v := range slots {
		view.Slots[k.String()] = v
	}
	return view, nil
}

// Month builds the monthly grid around ref.
func (s *Service) Month(ctx context.Context, ref time.Time, workerID *uuid.UUID) (*MonthView, error) {
	cells := calendar.Month(ref)
	visible := make([]string, 0, len(cells))
	rendered := make([]*string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		key := calendar.DateKey(*c)
		visible = append(visible, key)
		rendered[i] = &key
	}

	entries, err := s.entriesBetween(ctx, visible[0], visible[len(visible)-1], workerID)
	if err != nil {
		return nil, err
	}

	hours := calendar.WorkdayHours()
	slots := calendar.MapToSlots(entries, visible, hours)

	view := &MonthView{
		Ref:   calendar.DateKey(ref),
		Prev:  calendar.DateKey(calendar.AddMonths(ref, -1)),
		Next:  calendar.DateKey(calendar.AddMonths(ref, 1)),
		Cells: rendered,
		Slots: make(map[string][]calendar.Entry, len(slots)),
	}
	for k, v := range slots {
		view.Slots[k.String()] = v
	}
	return view, nil
}

// ExportICS serializes the appointments in [from, to] as an iCalendar feed
// so the agenda can be subscribed to from an external calendar client.
func (s *Service) ExportICS(ctx context.Context, from, to string, workerID *uuid.UUID) (string, error) {
	appts, err := s.appts.ListRange(ctx, from, to, workerID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//clinicops//clinic-server//ES")

	for _, a := range appts {
		start, end, err := apptTimes(a)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s@clinic-server", a.ID))
		ev.SetCreatedTime(a.CreatedAt)
		ev.SetModifiedAt(a.UpdatedAt)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		if a.PacienteNombre != "" {
			ev.SetSummary(a.PacienteNombre)
		} else {
			ev.SetSummary("Cita")
		}
		if a.Descripcion != nil {
			ev.SetDescription(*a.Descripcion)
		}
	}
	return cal.Serialize(), nil
}

func apptTimes(a *appointment.Appointment) (time.Time, time.Time, error) {
	day, err := calendar.ParseDate(a.Fecha)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startMin, err := calendar.ClockMinutes(a.Comenzar)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := calendar.ClockMinutes(a.Finalizar)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day.Add(time.Duration(startMin) * time.Minute),
		day.Add(time.Duration(endMin) * time.Minute), nil
}

func hourRows(hr calendar.HourRange) []int {
	rows := make([]int, 0, hr.Last-hr.First+1)
	for h := hr.First; h <= hr.Last; h++ {
		rows = append(rows, h)
	}
	return rows
}
