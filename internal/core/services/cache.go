package services

import (
	"context"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
)

// Работа с кэшем отчетов и правил доступности

func (s *ScheduleAggregatorService) getAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, error) {
	if s.cacheEnabled() {
		if rules, exists := s.cachePort.GetAvailabilityRules(ctx, doctorID); exists {
			return rules, nil
		}

		s.logger.Debug("availability_rules.cache.miss", out.LogFields{
			"doctorId": doctorID,
		})
	}

	rules, err := s.ehrPort.GetDoctorAvailabilityRules(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		s.cachePort.StoreAvailabilityRules(ctx, doctorID, rules)
	}

	return rules, nil
}

// InvalidateAppointmentReports сбрасывает кэш недели, которую затронуло
// изменение записи на прием. Если время записи битое и неделю определить
// нельзя, сбрасываем все отчеты врача.
func (s *ScheduleAggregatorService) InvalidateAppointmentReports(ctx context.Context, doctorID uuid.UUID, appointment domain.Appointment) error {
	if !s.cacheEnabled() {
		return nil
	}

	if appointment.ScheduledAt.Date.IsZero() {
		s.logger.Warn("reports.invalidate.week_unknown", out.LogFields{
			"doctorId":      doctorID,
			"appointmentId": appointment.ID,
		})
		s.cachePort.InvalidateDoctorReports(ctx, doctorID)
		return nil
	}

	week := domain.WeekKeyForTime(appointment.ScheduledAt.Date.In(config.TimeZone))
	s.cachePort.InvalidateWeekReport(ctx, doctorID, week)

	s.logger.Debug("reports.invalidate.week", out.LogFields{
		"doctorId":      doctorID,
		"appointmentId": appointment.ID,
		"week":          week,
	})

	return nil
}
