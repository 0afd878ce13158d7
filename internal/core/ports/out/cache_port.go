package out

import (
	"context"

	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/google/uuid"
)

type CachePort interface {
	// Кэширование недельных отчетов
	GetWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) (*domain.WeekReport, bool)
	StoreWeekReport(ctx context.Context, doctorID uuid.UUID, report domain.WeekReport)
	InvalidateWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey)
	InvalidateDoctorReports(ctx context.Context, doctorID uuid.UUID)

	// Кэширование правил доступности
	GetAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, bool)
	StoreAvailabilityRules(ctx context.Context, doctorID uuid.UUID, rules []domain.AvailabilityRule)
	InvalidateAvailabilityRules(ctx context.Context, doctorID uuid.UUID)
}
