package out

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/google/uuid"
)

// Конверт ответа EHR API: список ресурсов в entry
type EhrBundleEntry struct {
	Resource json.RawMessage `json:"resource"`
}

type EhrBundleResponse struct {
	Entry []EhrBundleEntry `json:"entry"`
}

type EhrPort interface {
	// Методы для работы с записями на прием
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]domain.Appointment, error)
	GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error)

	// Методы для работы с правилами доступности
	GetDoctorAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, error)
}
