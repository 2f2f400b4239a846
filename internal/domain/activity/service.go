package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

// weekdays maps the Spanish day names the front-end sends (accented or not)
// to recurrence weekdays.
var weekdays = map[string]rrule.Weekday{
	"lunes":     rrule.MO,
	"martes":    rrule.TU,
	"miércoles": rrule.WE,
	"miercoles": rrule.WE,
	"jueves":    rrule.TH,
	"viernes":   rrule.FR,
	"sábado":    rrule.SA,
	"sabado":    rrule.SA,
	"domingo":   rrule.SU,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(a *Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if err := calendar.ValidateTimes(a.StartTime, a.EndTime); err != nil {
		return err
	}
	start, _ := calendar.ClockMinutes(a.StartTime)
	end, _ := calendar.ClockMinutes(a.EndTime)
	a.StartTime = calendar.FormatClock(start)
	a.EndTime = calendar.FormatClock(end)

	if a.StartDate != nil && *a.StartDate != "" {
		if _, err := calendar.ParseDate(*a.StartDate); err != nil {
			return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
		}
	}
	for _, d := range a.RecurrenceDays {
		if _, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]; !ok {
			return fmt.Errorf("unknown recurrence day %q", d)
		}
	}
	if a.Precio < 0 {
		return fmt.Errorf("precio must not be negative")
	}
	return nil
}

func (s *Service) CreateActivity(ctx context.Context, a *Activity) error {
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateActivity(ctx context.Context, a *Activity) error {
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListActivities(ctx context.Context, limit, offset int) ([]*Activity, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Occurrences expands every activity's weekly recurrence into the concrete
// sessions falling within [from, to], for painting alongside appointments.
func (s *Service) Occurrences(ctx context.Context, from, to string) ([]Occurrence, error) {
	fromDate, err := calendar.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("parse from: %w", err)
	}
	toDate, err := calendar.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("parse to: %w", err)
	}

	activities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var occurrences []Occurrence
	for _, a := range activities {
		dates, err := expand(a, fromDate, toDate)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		for _, d := range dates {
			occurrences = append(occurrences, Occurrence{
				ActivityID: a.ID,
				Name:       a.Name,
				Fecha:      calendar.DateKey(d),
				StartTime:  a.StartTime,
				EndTime:    a.EndTime,
			})
		}
	}
	return occurrences, nil
}

// expand computes the activity's session dates inside [from, to]. An
// activity with no recurrence days yields only its start date, if set and
// in range.
func expand(a *Activity, from, to time.Time) ([]time.Time, error) {
	dtstart := from
	if a.StartDate != nil && *a.StartDate != "" {
		sd, err := calendar.ParseDate(*a.StartDate)
		if err != nil {
			return nil, err
		}
		if sd.After(from) {
			dtstart = sd
		}
		if len(a.RecurrenceDays) == 0 {
			if !sd.Before(from) && !sd.After(to) {
				return []time.Time{sd}, nil
			}
			return nil, nil
		}
	} else if len(a.RecurrenceDays) == 0 {
		return nil, nil
	}

	byDay := make([]rrule.Weekday, 0, len(a.RecurrenceDays))
	for _, d := range a.RecurrenceDays {
		byDay = append(byDay, weekdays[strings.ToLower(strings.TrimSpace(d))])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Byweekday: byDay,
		Until:     to,
	})
	if err != nil {
		return nil, err
	}
	return rule.Between(from, to, true), nil
}
