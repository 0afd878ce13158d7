package domain

import (
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/core/json_types"
	"github.com/google/uuid"
)

// AvailabilityRule — еженедельное правило доступности врача
// DayOfWeek хранится в соглашении источника: 0 = воскресенье
type AvailabilityRule struct {
	ID        uuid.UUID            `json:"id"`
	DoctorID  uuid.UUID            `json:"doctorId"`
	DayOfWeek int                  `json:"dayOfWeek"`
	StartTime json_types.ClockTime `json:"startTime"`
	EndTime   json_types.ClockTime `json:"endTime"`
	IsActive  bool                 `json:"isActive"`
}

func (r AvailabilityRule) WellFormed() bool {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return false
	}
	return r.EndTime.MinuteOfDay() > r.StartTime.MinuteOfDay()
}

// Weekday переводит DayOfWeek в time.Weekday
// Оба отсчитываются с воскресенья, поэтому совпадают напрямую
func (r AvailabilityRule) Weekday() time.Weekday {
	return time.Weekday(r.DayOfWeek)
}

// SlotCount возвращает количество слотов фиксированного размера,
// помещающихся между началом и концом правила
func (r AvailabilityRule) SlotCount(slotSize time.Duration) int {
	if slotSize <= 0 {
		return 0
	}
	window := time.Duration(r.EndTime.MinuteOfDay()-r.StartTime.MinuteOfDay()) * time.Minute
	if window <= 0 {
		return 0
	}
	return int(window / slotSize)
}
