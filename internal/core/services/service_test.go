package services

import (
	"sync"
	"testing"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/json_types"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
)

// recordingLogger собирает события, чтобы проверять предупреждения
type recordingLogger struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingLogger) record(event string) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *recordingLogger) has(event string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, current := range l.events {
		if current == event {
			return true
		}
	}
	return false
}

func (l *recordingLogger) Debug(event string, fields out.LogFields) { l.record(event) }
func (l *recordingLogger) Info(event string, fields out.LogFields)  { l.record(event) }
func (l *recordingLogger) Warn(event string, fields out.LogFields)  { l.record(event) }
func (l *recordingLogger) Error(event string, fields out.LogFields) { l.record(event) }

func (l *recordingLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l *recordingLogger) WithModule(module string) out.LoggerPort        { return l }

func newTestService(ehrPort out.EhrPort, cachePort out.CachePort, cfg *config.Config) (*ScheduleAggregatorService, *recordingLogger) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	logger := &recordingLogger{}
	return NewScheduleAggregatorService(ehrPort, cachePort, cfg, logger), logger
}

func mkAppointment(scheduledAt time.Time, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID:          uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: json_types.DateTime{Date: scheduledAt},
		Status:      status,
	}
}

func mkClock(t *testing.T, hour, minute int) json_types.ClockTime {
	t.Helper()
	return json_types.ClockTime{Time: time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)}
}

func mkRule(t *testing.T, dayOfWeek int, startHour, startMinute, endHour, endMinute int, active bool) domain.AvailabilityRule {
	t.Helper()
	return domain.AvailabilityRule{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		DayOfWeek: dayOfWeek,
		StartTime: mkClock(t, startHour, startMinute),
		EndTime:   mkClock(t, endHour, endMinute),
		IsActive:  active,
	}
}
