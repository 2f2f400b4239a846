// Package reminder sends WhatsApp appointment reminders, on demand from the
// agenda and on a daily schedule for the next day's appointments.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/domain/patient"
	"github.com/clinicops/clinic-server/internal/platform/calendar"
	"github.com/clinicops/clinic-server/internal/platform/notification"
)

// Per-appointment delivery outcomes.
const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Result reports what happened to one appointment's reminder.
type Result struct {
	CitaID   uuid.UUID `json:"cita_id"`
	Paciente string    `json:"paciente,omitempty"`
	Status   string    `json:"status"`
	Detail   string    `json:"detail,omitempty"`
}

// Deduper remembers sent reminders so one appointment gets at most one
// message per day.
type Deduper interface {
	// MarkSent records the send and reports whether it was the first one
	// today for this appointment.
	MarkSent(ctx context.Context, citaID uuid.UUID, day string) (bool, error)
	// Release frees the claim after a failed delivery so a retry can go out
	// the same day.
	Release(ctx context.Context, citaID uuid.UUID, day string) error
}

// RedisDeduper implements Deduper with SET NX keys that expire after a day.
type RedisDeduper struct {
	rdb *redis.Client
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb}
}

func (d *RedisDeduper) MarkSent(ctx context.Context, citaID uuid.UUID, day string) (bool, error) {
	key := fmt.Sprintf("reminder:%s:%s", citaID, day)
	return d.rdb.SetNX(ctx, key, 1, 24*time.Hour).Result()
}

func (d *RedisDeduper) Release(ctx context.Context, citaID uuid.UUID, day string) error {
	key := fmt.Sprintf("reminder:%s:%s", citaID, day)
	return d.rdb.Del(ctx, key).Err()
}

type Service struct {
	appts    appointment.Repository
	patients patient.Repository
	sender   notification.Sender
	dedupe   Deduper
	logger   zerolog.Logger
}

func NewService(appts appointment.Repository, patients patient.Repository, sender notification.Sender, dedupe Deduper, logger zerolog.Logger) *Service {
	return &Service{appts: appts, patients: patients, sender: sender, dedupe: dedupe, logger: logger}
}

// SendByIDs delivers a reminder for each listed appointment and reports a
// per-appointment result. Appointments without a patient, patients without
// a phone, and already-reminded appointments are skipped, not failed.
func (s *Service) SendByIDs(ctx context.Context, ids []uuid.UUID) ([]Result, error) {
	appts, err := s.appts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(appts))
	results := make([]Result, 0, len(ids))
	for _, a := range appts {
		found[a.ID] = true
		results = append(results, s.sendOne(ctx, a))
	}
	for _, id := range ids {
		if !found[id] {
			results = append(results, Result{CitaID: id, Status: StatusFailed, Detail: "appointment not found"})
		}
	}
	return results, nil
}

// SendDailyReminders messages every patient with an appointment tomorrow.
// Wired to the scheduler; also callable from an admin endpoint.
func (s *Service) SendDailyReminders(ctx context.Context) ([]Result, error) {
	tomorrow := calendar.DateKey(time.Now().AddDate(0, 0, 1))
	appts, err := s.appts.ListRange(ctx, tomorrow, tomorrow, nil)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(appts))
	for _, a := range appts {
		results = append(results, s.sendOne(ctx, a))
	}
	s.logger.Info().Str("fecha", tomorrow).Int("appointments", len(appts)).
		Msg("daily reminder run finished")
	return results, nil
}

func (s *Service) sendOne(ctx context.Context, a *appointment.Appointment) Result {
	res := Result{CitaID: a.ID, Paciente: a.PacienteNombre}

	if a.PacienteID == nil {
		res.Status = StatusSkipped
		res.Detail = "no patient on appointment"
		return res
	}
	p, err := s.patients.GetByID(ctx, *a.PacienteID)
	if err != nil {
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}
	res.Paciente = p.FullName()
	if p.Phone == nil || *p.Phone == "" {
		res.Status = StatusSkipped
		res.Detail = "patient has no phone"
		return res
	}

	day := calendar.DateKey(time.Now())
	claimed, err := s.dedupe.MarkSent(ctx, a.ID, day)
	if err != nil {
		// Dedupe being down should not block reminders.
		s.logger.Warn().Err(err).Msg("reminder dedupe unavailable, sending anyway")
		claimed = false
	} else if !claimed {
		res.Status = StatusSkipped
		res.Detail = "already reminded today"
		return res
	}

	body, err := notification.Render(notification.ReminderTemplateID, map[string]string{
		"nombre": p.Nombre,
		"fecha":  a.Fecha,
		"hora":   a.Comenzar,
	})
	if err != nil {
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}
	if err := s.sender.Send(ctx, *p.Phone, body); err != nil {
		s.logger.Error().Err(err).Str("cita", a.ID.String()).Msg("reminder delivery failed")
		if claimed {
			// Give the claim back so a retry can send today.
			if relErr := s.dedupe.Release(ctx, a.ID, day); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("could not release reminder claim")
			}
		}
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}

	res.Status = StatusSent
	return res
}
