package services

import (
	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
)

// Чистые агрегатные операции над уже загруженными данными.
// Битые записи пропускаются с предупреждением, а не валят весь расчет.
// Метки времени могут приходить с произвольным смещением (Z или чужая
// таймзона), поэтому неделя, час и день недели всегда берутся после
// приведения к таймзоне приложения.

// BucketByWeek раскладывает записи по ISO-неделям.
// Каждая запись попадает ровно в один бакет, порядок внутри бакета
// совпадает с порядком входа.
func (s *ScheduleAggregatorService) BucketByWeek(appointments []domain.Appointment) map[domain.WeekKey][]domain.Appointment {
	buckets := make(map[domain.WeekKey][]domain.Appointment)

	for _, appointment := range appointments {
		if !appointment.WellFormed() {
			s.warnMalformed(&domain.MalformedRecordError{
				Resource: "Appointment",
				ID:       appointment.ID.String(),
				Reason:   "scheduledAt is missing or endTime is not after it",
			})
			continue
		}

		week := domain.WeekKeyForTime(appointment.ScheduledAt.Date.In(config.TimeZone))
		buckets[week] = append(buckets[week], appointment)
	}

	return buckets
}

// ProjectToGrid раскладывает записи по ячейкам (день недели, час).
// Записи вне диапазона часов молча не попадают в сетку: это фильтр
// отображения, в недельном бакете они остаются.
func (s *ScheduleAggregatorService) ProjectToGrid(appointments []domain.Appointment, options domain.CalendarOptions, days []domain.DayLabel) (map[domain.DayHourCell][]domain.Appointment, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if days == nil {
		days = options.Days()
	}
	displayedDays := make(map[domain.DayLabel]struct{}, len(days))
	for _, day := range days {
		displayedDays[day] = struct{}{}
	}

	grid := make(map[domain.DayHourCell][]domain.Appointment)

	for _, appointment := range appointments {
		if !appointment.WellFormed() {
			s.warnMalformed(&domain.MalformedRecordError{
				Resource: "Appointment",
				ID:       appointment.ID.String(),
				Reason:   "scheduledAt is missing or endTime is not after it",
			})
			continue
		}

		scheduledAt := appointment.ScheduledAt.Date.In(config.TimeZone)

		hour := scheduledAt.Hour()
		if !options.HourInRange(hour) {
			continue
		}

		day := options.LabelFor(scheduledAt.Weekday())
		if _, displayed := displayedDays[day]; !displayed {
			continue
		}

		cell := domain.DayHourCell{Day: day, Hour: hour}
		grid[cell] = append(grid[cell], appointment)
	}

	return grid, nil
}

// CountByStatus — счетчики по статусам.
// Неизвестные статусы попадают только в Total.
func (s *ScheduleAggregatorService) CountByStatus(appointments []domain.Appointment) domain.StatusCounts {
	counts := domain.StatusCounts{}

	for _, appointment := range appointments {
		counts.Total++

		switch appointment.Status {
		case domain.AppointmentStatusPending:
			counts.Pending++
		case domain.AppointmentStatusConfirmed:
			counts.Confirmed++
		case domain.AppointmentStatusCompleted:
			counts.Completed++
		case domain.AppointmentStatusCanceled:
			counts.Canceled++
		case domain.AppointmentStatusNoShow:
			counts.NoShow++
		}
	}

	return counts
}

// CompareAvailabilityToBookings строит по строке на каждый отображаемый день:
// сколько слотов дают активные правила и сколько записей пришлось на день.
// День без активного правила дает 0 слотов, даже если записи есть:
// переполненные дни показываем как расхождение, а не как ошибку.
func (s *ScheduleAggregatorService) CompareAvailabilityToBookings(rules []domain.AvailabilityRule, appointments []domain.Appointment, options domain.CalendarOptions, days []domain.DayLabel) ([]domain.AvailabilityComparison, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if days == nil {
		days = options.Days()
	}

	rows := make([]domain.AvailabilityComparison, 0, len(days))

	for _, day := range days {
		weekday, known := options.WeekdayFor(day)
		if !known {
			return nil, &domain.InvalidConfigurationError{
				Reason: "day " + string(day) + " is not among the weekday labels",
			}
		}

		row := domain.AvailabilityComparison{Day: day}

		for _, rule := range rules {
			if !rule.IsActive {
				continue
			}
			if !rule.WellFormed() {
				s.warnMalformed(&domain.MalformedRecordError{
					Resource: "AvailabilityRule",
					ID:       rule.ID.String(),
					Reason:   "dayOfWeek is out of range or endTime is not after startTime",
				})
				continue
			}
			if rule.Weekday() == weekday {
				row.AvailableSlotCount += rule.SlotCount(options.SlotSize)
			}
		}

		for _, appointment := range appointments {
			if !appointment.WellFormed() {
				continue
			}
			if appointment.ScheduledAt.Date.In(config.TimeZone).Weekday() == weekday {
				row.BookedCount++
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (s *ScheduleAggregatorService) warnMalformed(recordErr *domain.MalformedRecordError) {
	s.logger.Warn("aggregate.malformed_record.skipped", out.LogFields{
		"resource": recordErr.Resource,
		"id":       recordErr.ID,
		"reason":   recordErr.Reason,
	})
}
