package services

import "github.com/clinicdesk/schedule-aggregator/internal/core/domain"

type AppointmentSlice []domain.Appointment

// quickSort — сортировка записей по времени начала приема
func (s AppointmentSlice) quickSort() AppointmentSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	// Разделяем слайс на три части
	less := AppointmentSlice{}
	equal := AppointmentSlice{}
	greater := AppointmentSlice{}

	for _, appointment := range s {
		if appointment.ScheduledAt.Date.Before(pivot.ScheduledAt.Date) {
			less = append(less, appointment)
		} else if appointment.ScheduledAt.Date.Equal(pivot.ScheduledAt.Date) {
			equal = append(equal, appointment)
		} else {
			greater = append(greater, appointment)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
