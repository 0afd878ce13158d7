package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
)

type ScheduleAggregatorService struct {
	ehrPort   out.EhrPort
	cachePort out.CachePort
	logger    out.LoggerPort
	cfg       *config.Config
}

func NewScheduleAggregatorService(
	ehrPort out.EhrPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *ScheduleAggregatorService {
	return &ScheduleAggregatorService{
		ehrPort:   ehrPort,
		cachePort: cachePort,
		cfg:       cfg,
		logger:    logger.WithModule("ScheduleAggregatorService"),
	}
}

func (s *ScheduleAggregatorService) cacheEnabled() bool {
	return s.cachePort != nil && s.cfg != nil && s.cfg.Cache.Enabled
}

func (s *ScheduleAggregatorService) AvailableWeeks(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]domain.WeekKey, []domain.DebugInfo, error) {
	debugInfo := scheduleAggregatorDebug{
		data: make([]domain.DebugInfo, 0),
	}

	fetch_appointments_debug := domain.DebugInfo{
		Event: "reports.weeks.appointments.fetch",
	}
	fetch_appointments_debug.Start()

	appointments, err := s.ehrPort.GetDoctorAppointments(ctx, doctorID, startDate, endDate)
	if err != nil {
		s.logger.Error("reports.weeks.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, nil, fmt.Errorf("reports.weeks.appointments.fetch_failed: %w", err)
	}
	fetch_appointments_debug.Elapse()
	debugInfo.AddDebugInfo(fetch_appointments_debug)

	bucket_debug := domain.DebugInfo{
		Event: "reports.weeks.bucket",
	}
	bucket_debug.Start()
	weeks := s.AvailableWeekKeys(s.BucketByWeek(appointments))
	bucket_debug.Elapse()
	debugInfo.AddDebugInfo(bucket_debug)

	return weeks, debugInfo.data, nil
}

func (s *ScheduleAggregatorService) WeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) (*domain.WeekReport, []domain.DebugInfo, error) {
	debugInfo := scheduleAggregatorDebug{
		data: make([]domain.DebugInfo, 0),
	}
	s.logger.Info("reports.week.started", out.LogFields{
		"doctorId": doctorID,
		"week":     week,
	})

	// Проверяем кэш только если он включен
	if s.cacheEnabled() {
		if report, exists := s.cachePort.GetWeekReport(ctx, doctorID, week); exists {
			s.logger.Debug("reports.week.cache.hit", out.LogFields{
				"doctorId":          doctorID,
				"week":              week,
				"appointmentsCount": len(report.Appointments),
			})
			return report, debugInfo.data, nil
		}

		s.logger.Debug("reports.week.cache.miss", out.LogFields{
			"doctorId": doctorID,
			"week":     week,
		})
	}

	startDate, err := week.StartTime(config.TimeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("reports.week.bad_week_key: %w", err)
	}
	endDate, _ := week.EndTime(config.TimeZone)

	fetch_appointments_debug := domain.DebugInfo{
		Event: "reports.week.appointments.fetch",
	}
	fetch_appointments_debug.Start()

	appointments, err := s.ehrPort.GetDoctorAppointments(ctx, doctorID, startDate, endDate)
	if err != nil {
		s.logger.Error("reports.week.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"week":     week,
			"error":    err.Error(),
		})
		return nil, nil, fmt.Errorf("reports.week.appointments.fetch_failed: %w", err)
	}
	fetch_appointments_debug.Elapse()
	debugInfo.AddDebugInfo(fetch_appointments_debug)

	aggregate_debug := domain.DebugInfo{
		Event: "reports.week.aggregate",
	}
	aggregate_debug.Start()

	// Запрошенный период может зацепить соседние недели,
	// поэтому отчет строим строго из бакета запрошенной недели
	buckets := s.BucketByWeek(appointments)
	weekAppointments := buckets[week]
	if weekAppointments == nil {
		weekAppointments = make([]domain.Appointment, 0)
	}

	report := &domain.WeekReport{
		DoctorID:     doctorID,
		Week:         week,
		Appointments: weekAppointments,
		Statuses:     s.CountByStatus(weekAppointments),
		Empty:        len(weekAppointments) == 0,
	}

	aggregate_debug.Elapse()
	debugInfo.AddDebugInfo(aggregate_debug)

	// Сохраняем в кэш только если он включен
	if s.cacheEnabled() {
		s.cachePort.StoreWeekReport(ctx, doctorID, *report)
	}

	return report, debugInfo.data, nil
}

func (s *ScheduleAggregatorService) WeekReportForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*domain.WeekReport, []domain.DebugInfo, error) {
	return s.WeekReport(ctx, doctorID, domain.WeekKeyForTime(date.In(config.TimeZone)))
}

func (s *ScheduleAggregatorService) GridReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey, options domain.CalendarOptions, days []domain.DayLabel) ([]domain.GridCell, []domain.DebugInfo, error) {
	// Настройки проверяем до любых запросов: это fail-fast ошибка вызова
	if err := options.Validate(); err != nil {
		return nil, nil, err
	}

	report, debugData, err := s.WeekReport(ctx, doctorID, week)
	if err != nil {
		return nil, nil, err
	}

	debugInfo := scheduleAggregatorDebug{data: debugData}

	project_debug := domain.DebugInfo{
		Event: "reports.grid.project",
	}
	project_debug.Start()

	grid, err := s.ProjectToGrid(report.Appointments, options, days)
	if err != nil {
		return nil, nil, err
	}

	if days == nil {
		days = options.Days()
	}

	// Разворачиваем сетку в упорядоченный список непустых ячеек:
	// дни в порядке недели, часы по возрастанию, записи по времени
	cells := make([]domain.GridCell, 0, len(grid))
	for _, day := range days {
		for hour := options.HourRange[0]; hour <= options.HourRange[1]; hour++ {
			cellAppointments, exists := grid[domain.DayHourCell{Day: day, Hour: hour}]
			if !exists {
				continue
			}
			cells = append(cells, domain.GridCell{
				Day:          day,
				Hour:         hour,
				Appointments: AppointmentSlice(cellAppointments).quickSort(),
			})
		}
	}

	project_debug.Elapse()
	debugInfo.AddDebugInfo(project_debug)

	return cells, debugInfo.data, nil
}

func (s *ScheduleAggregatorService) StatusReport(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) (*domain.StatusCounts, error) {
	appointments, err := s.ehrPort.GetDoctorAppointments(ctx, doctorID, startDate, endDate)
	if err != nil {
		s.logger.Error("reports.status.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("reports.status.appointments.fetch_failed: %w", err)
	}

	counts := s.CountByStatus(appointments)
	return &counts, nil
}

func (s *ScheduleAggregatorService) BatchStatusReports(ctx context.Context, doctorIDs []uuid.UUID, startDate, endDate time.Time) (map[uuid.UUID]domain.StatusCounts, error) {
	result := make(map[uuid.UUID]domain.StatusCounts)
	var mu sync.Mutex
	var wg sync.WaitGroup
	errCh := make(chan error, len(doctorIDs))

	for _, id := range doctorIDs {
		wg.Add(1)
		go func(doctorID uuid.UUID) {
			defer wg.Done()

			counts, err := s.StatusReport(ctx, doctorID, startDate, endDate)
			if err != nil {
				errCh <- err
				return
			}

			mu.Lock()
			result[doctorID] = *counts
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	close(errCh)

	// Проверяем ошибки
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *ScheduleAggregatorService) AvailabilityReport(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time, options domain.CalendarOptions) ([]domain.AvailabilityComparison, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	rules, err := s.getAvailabilityRules(ctx, doctorID)
	if err != nil {
		s.logger.Error("reports.availability.rules.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("reports.availability.rules.fetch_failed: %w", err)
	}

	appointments, err := s.ehrPort.GetDoctorAppointments(ctx, doctorID, startDate, endDate)
	if err != nil {
		s.logger.Error("reports.availability.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("reports.availability.appointments.fetch_failed: %w", err)
	}

	return s.CompareAvailabilityToBookings(rules, appointments, options, nil)
}

// AvailableWeekKeys возвращает ключи недель по убыванию,
// самая свежая неделя с данными первая
func (s *ScheduleAggregatorService) AvailableWeekKeys(buckets map[domain.WeekKey][]domain.Appointment) []domain.WeekKey {
	weeks := make([]domain.WeekKey, 0, len(buckets))
	for week := range buckets {
		weeks = append(weeks, week)
	}

	// Формат YYYY-SWW с ведущими нулями: лексикографический порядок
	// совпадает с хронологическим
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i] > weeks[j]
	})

	return weeks
}
