package rabbitmq

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const eventResourceAppointment = "appointment"

// AppointmentEventMessage — тело события об изменении записи на прием.
// PreviousStatus заполняется источником при смене статуса.
type AppointmentEventMessage struct {
	DoctorID       uuid.UUID                `json:"doctorId"`
	PreviousStatus domain.AppointmentStatus `json:"previousStatus"`
	Appointment    domain.Appointment       `json:"appointment"`
}

type eventRoutingKey struct {
	ResourceType string
	Action       string
}

// Ключи маршрутизации вида "appointment.created", "appointment.updated"
func parseEventRoutingKey(msg amqp.Delivery) eventRoutingKey {
	parts := strings.SplitN(msg.RoutingKey, ".", 2)
	key := eventRoutingKey{ResourceType: parts[0]}
	if len(parts) == 2 {
		key.Action = parts[1]
	}
	return key
}

func (l *AppointmentEventListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey := parseEventRoutingKey(msg)

	// Чужие ресурсы подтверждаем без обработки
	if routingKey.ResourceType != eventResourceAppointment {
		return nil
	}

	var event AppointmentEventMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"doctorId":      event.DoctorID,
		"appointmentId": event.Appointment.ID,
		"action":        routingKey.Action,
	})

	// Переходы статусов выполняет внешняя система, но раз уж событие
	// проходит через нас, подсвечиваем нарушение допустимых переходов
	if event.PreviousStatus != "" && event.PreviousStatus != event.Appointment.Status {
		if !event.PreviousStatus.CanTransitionTo(event.Appointment.Status) {
			l.logger.Warn("appointment.message.invalid_transition", out.LogFields{
				"appointmentId": event.Appointment.ID,
				"from":          event.PreviousStatus,
				"to":            event.Appointment.Status,
			})
		}
	}

	return l.useCase.InvalidateAppointmentReports(ctx, event.DoctorID, event.Appointment)
}
