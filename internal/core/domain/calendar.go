package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLabel — локализованная подпись дня недели в сетке календаря
type DayLabel string

// DayHourCell — ячейка сетки (день недели, час)
type DayHourCell struct {
	Day  DayLabel `json:"day"`
	Hour int      `json:"hour"`
}

// CalendarOptions — настройки отображения календаря: язык и порядок дней,
// диапазон отображаемых часов и размер слота. Передаются явно, а не зашиты
// в код, чтобы сетку можно было строить для любой локали.
type CalendarOptions struct {
	WeekStart     time.Weekday
	WeekdayLabels []string
	HourRange     [2]int
	SlotSize      time.Duration
}

// Дефолтные настройки повторяют исходную систему:
// французские подписи, неделя с понедельника, строки с 08:00 по 19:00
func DefaultCalendarOptions() CalendarOptions {
	return CalendarOptions{
		WeekStart:     time.Monday,
		WeekdayLabels: []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"},
		HourRange:     [2]int{8, 19},
		SlotSize:      30 * time.Minute,
	}
}

func ParseWeekStart(str string) (time.Weekday, error) {
	switch strings.ToLower(str) {
	case "monday":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	}
	return time.Monday, fmt.Errorf("unknown week start %q", str)
}

func (o CalendarOptions) Validate() error {
	if len(o.WeekdayLabels) != 7 {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("expected 7 weekday labels, got %d", len(o.WeekdayLabels)),
		}
	}
	if o.HourRange[0] > o.HourRange[1] {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("hour range min %d is greater than max %d", o.HourRange[0], o.HourRange[1]),
		}
	}
	if o.HourRange[0] < 0 || o.HourRange[1] > 23 {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("hour range [%d,%d] is outside 0-23", o.HourRange[0], o.HourRange[1]),
		}
	}
	if o.SlotSize <= 0 {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("slot size %s must be positive", o.SlotSize),
		}
	}
	if o.WeekStart != time.Monday && o.WeekStart != time.Sunday {
		return &InvalidConfigurationError{
			Reason: fmt.Sprintf("week start %s is not supported", o.WeekStart),
		}
	}
	return nil
}

// LabelFor возвращает подпись для дня недели.
// Подписи упорядочены начиная с WeekStart.
func (o CalendarOptions) LabelFor(weekday time.Weekday) DayLabel {
	index := (int(weekday) - int(o.WeekStart) + 7) % 7
	return DayLabel(o.WeekdayLabels[index])
}

// WeekdayFor — обратное преобразование подписи в день недели
func (o CalendarOptions) WeekdayFor(label DayLabel) (time.Weekday, bool) {
	for index, current := range o.WeekdayLabels {
		if DayLabel(current) == label {
			return time.Weekday((index + int(o.WeekStart)) % 7), true
		}
	}
	return time.Sunday, false
}

// Days возвращает все подписи в порядке отображения недели
func (o CalendarOptions) Days() []DayLabel {
	days := make([]DayLabel, 0, len(o.WeekdayLabels))
	for _, label := range o.WeekdayLabels {
		days = append(days, DayLabel(label))
	}
	return days
}

func (o CalendarOptions) HourInRange(hour int) bool {
	return hour >= o.HourRange[0] && hour <= o.HourRange[1]
}
