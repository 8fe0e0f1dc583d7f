package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"
	"l2lsales/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EventPublisher receives committed state changes. Publishing is best effort:
// a failure is logged and never reaches the caller.
type EventPublisher interface {
	Publish(ctx context.Context, ev worker.Event) error
}

// Option tunes the business calendar shared by the services.
type Option func(*settings)

type settings struct {
	loc *time.Location
	now func() time.Time
}

func defaultSettings(opts []Option) settings {
	s := settings{loc: time.UTC, now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// WithLocation sets the timezone in which "today" is evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// today is the current calendar date in the business timezone, as UTC midnight.
func (s settings) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func publish(ctx context.Context, pub EventPublisher, ev worker.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("entity_type", ev.EntityType).
			Str("entity_id", ev.EntityID.String()).
			Str("action", ev.Action).
			Msg("event publish failed")
	}
}

// ── Parsing helpers ──────────────────────────────────────────────────────────

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierror.ValidationField(field, "must be a valid uuid")
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apierror.ValidationField(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string { return t.Format(dto.DateLayout) }

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// normalizeEnum lowercases and trims a status-like input.
func normalizeEnum(raw string) string { return strings.ToLower(strings.TrimSpace(raw)) }

// trimmedOrNil drops blank optional text.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
