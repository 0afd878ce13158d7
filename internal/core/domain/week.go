package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// WeekKey — ключ недели вида {ISO-год}-S{номер ISO-недели с ведущим нулем},
// например "2025-S02". Нули в номере делают лексикографический порядок
// хронологическим.
type WeekKey string

func WeekKeyForTime(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey(fmt.Sprintf("%d-S%02d", year, week))
}

// Шаблон заякорен с обеих сторон: хвостовой мусор в ключе недели — ошибка
var weekKeyPattern = regexp.MustCompile(`^(\d+)-S(\d+)$`)

func ParseWeekKey(str string) (WeekKey, error) {
	match := weekKeyPattern.FindStringSubmatch(str)
	if match == nil {
		return "", fmt.Errorf("failed to parse week key %q", str)
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return "", fmt.Errorf("failed to parse week key %q: %v", str, err)
	}
	week, err := strconv.Atoi(match[2])
	if err != nil {
		return "", fmt.Errorf("failed to parse week key %q: %v", str, err)
	}

	if year < 1 || week < 1 || week > 53 {
		return "", fmt.Errorf("week key %q is out of range", str)
	}
	return WeekKey(fmt.Sprintf("%d-S%02d", year, week)), nil
}

// StartTime возвращает понедельник 00:00 этой ISO-недели.
// 4 января всегда попадает в первую ISO-неделю года, от него и считаем.
func (k WeekKey) StartTime(location *time.Location) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(string(k), "%d-S%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse week key %q: %v", string(k), err)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, location)
	// Смещение от понедельника: воскресенье считается седьмым днем
	offset := (int(jan4.Weekday()) + 6) % 7
	firstMonday := jan4.AddDate(0, 0, -offset)

	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}

// EndTime возвращает начало следующей ISO-недели
func (k WeekKey) EndTime(location *time.Location) (time.Time, error) {
	start, err := k.StartTime(location)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 7), nil
}
