package in

import (
	"context"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/google/uuid"
)

type ScheduleAggregatorUseCase interface {
	// Список недель с данными за период, последние недели первыми
	AvailableWeeks(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]domain.WeekKey, []domain.DebugInfo, error)

	// Недельный отчет: записи недели и счетчики статусов
	WeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) (*domain.WeekReport, []domain.DebugInfo, error)

	// Отчет недели, в которую попадает произвольная дата
	WeekReportForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*domain.WeekReport, []domain.DebugInfo, error)

	// Сетка день/час для одной недели
	GridReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey, options domain.CalendarOptions, days []domain.DayLabel) ([]domain.GridCell, []domain.DebugInfo, error)

	// Счетчики статусов за произвольный период
	StatusReport(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) (*domain.StatusCounts, error)

	// Счетчики статусов для нескольких врачей
	BatchStatusReports(ctx context.Context, doctorIDs []uuid.UUID, startDate, endDate time.Time) (map[uuid.UUID]domain.StatusCounts, error)

	// Сравнение доступности и записей по дням недели
	AvailabilityReport(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time, options domain.CalendarOptions) ([]domain.AvailabilityComparison, error)

	// Инвалидация кэша при изменении записи на прием
	InvalidateAppointmentReports(ctx context.Context, doctorID uuid.UUID, appointment domain.Appointment) error
}
