package domain

import (
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/core/json_types"
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCanceled  AppointmentStatus = "CANCELED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// DefaultAppointmentDuration — длительность приема, если конец не указан
const DefaultAppointmentDuration = 30 * time.Minute

// Допустимые переходы статуса записи на прием
// Сами переходы выполняет внешняя система, мы их только проверяем
var appointmentStatusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCanceled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCanceled, AppointmentStatusNoShow},
}

func (s AppointmentStatus) Known() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCanceled, AppointmentStatusNoShow:
		return true
	}
	return false
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          uuid.UUID                  `json:"id"`
	DoctorID    uuid.UUID                  `json:"doctorId"`
	ScheduledAt json_types.DateTime        `json:"scheduledAt"`
	EndTime     json_types.DateTimeOrEmpty `json:"endTime"`
	Status      AppointmentStatus          `json:"status"`
	PatientName string                     `json:"patientName"`
	DoctorName  string                     `json:"doctorName"`
}

// WellFormed проверяет, что запись пригодна для агрегации
func (a Appointment) WellFormed() bool {
	if a.ScheduledAt.Date.IsZero() {
		return false
	}
	if !a.EndTime.Date.IsZero() && !a.EndTime.Date.After(a.ScheduledAt.Date) {
		return false
	}
	return true
}

func (a Appointment) Duration() time.Duration {
	if a.EndTime.Date.IsZero() {
		return DefaultAppointmentDuration
	}
	return a.EndTime.Date.Sub(a.ScheduledAt.Date)
}
