package domain

import "github.com/google/uuid"

// StatusCounts — счетчики записей по статусам.
// Total включает и записи с неизвестным статусом.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Canceled  int `json:"canceled"`
	NoShow    int `json:"noShow"`
}

// WeekReport — агрегат одной недели для календаря врача
type WeekReport struct {
	DoctorID     uuid.UUID     `json:"doctorId"`
	Week         WeekKey       `json:"week"`
	Appointments []Appointment `json:"appointments"`
	Statuses     StatusCounts  `json:"statuses"`
	// Empty — явный признак недели без данных, чтобы фронт
	// отрисовал пустое состояние, а не ошибку
	Empty bool `json:"empty"`
}

// GridCell — непустая ячейка сетки день/час в ответе API
type GridCell struct {
	Day          DayLabel      `json:"day"`
	Hour         int           `json:"hour"`
	Appointments []Appointment `json:"appointments"`
}

// AvailabilityComparison — строка сравнения доступности и записей за день
type AvailabilityComparison struct {
	Day                DayLabel `json:"day"`
	AvailableSlotCount int      `json:"availableSlotCount"`
	BookedCount        int      `json:"bookedCount"`
}
