package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime — время суток без даты, в формате HH:mm
type ClockTime struct {
	Time time.Time
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	// Время обязано быть JSON-строкой: любой другой токен — ошибка
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time: %v", err)
	}
	parsedTime, err := time.Parse("15:04", str)
	// Некоторые источники присылают время с секундами
	if err != nil {
		parsedTime, err = time.Parse("15:04:05", str)
		if err != nil {
			return fmt.Errorf("failed to parse time: %v", err)
		}
	}
	*t = ClockTime{Time: parsedTime}
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format("15:04"))
}

// MinuteOfDay возвращает количество минут с начала суток
func (t ClockTime) MinuteOfDay() int {
	return t.Time.Hour()*60 + t.Time.Minute()
}
