package json_types

import (
	"encoding/json"
	"testing"
)

func TestClockTimeUnmarshal(t *testing.T) {
	var clock ClockTime
	if err := json.Unmarshal([]byte(`"09:30"`), &clock); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if clock.Time.Hour() != 9 || clock.Time.Minute() != 30 {
		t.Fatalf("expected 09:30, got %s", clock.Time.Format("15:04"))
	}
}

func TestClockTimeUnmarshalWithSeconds(t *testing.T) {
	var clock ClockTime
	if err := json.Unmarshal([]byte(`"17:45:30"`), &clock); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if clock.Time.Hour() != 17 || clock.Time.Minute() != 45 {
		t.Fatalf("expected 17:45, got %s", clock.Time.Format("15:04"))
	}
}

func TestClockTimeUnmarshalGarbage(t *testing.T) {
	var clock ClockTime
	if err := json.Unmarshal([]byte(`"quarter past nine"`), &clock); err == nil {
		t.Fatalf("expected error for unparseable time")
	}
}

func TestClockTimeMinuteOfDay(t *testing.T) {
	var clock ClockTime
	if err := json.Unmarshal([]byte(`"11:15"`), &clock); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if clock.MinuteOfDay() != 11*60+15 {
		t.Fatalf("expected 675 minutes, got %d", clock.MinuteOfDay())
	}
}

func TestDateTimeUnmarshalFormats(t *testing.T) {
	cases := []struct {
		input string
		hour  int
	}{
		{`"2025-01-06T09:00:00Z"`, 9},
		{`"2025-01-06T09:00:00"`, 9},
		{`"2025-01-06"`, 0},
	}

	for _, current := range cases {
		var dt DateTime
		if err := json.Unmarshal([]byte(current.input), &dt); err != nil {
			t.Fatalf("unmarshal of %s failed: %v", current.input, err)
		}
		if dt.Date.Year() != 2025 || dt.Date.Day() != 6 || dt.Date.Hour() != current.hour {
			t.Fatalf("unexpected date for %s: %s", current.input, dt.Date)
		}
	}
}

func TestClockTimeUnmarshalNonStringToken(t *testing.T) {
	// Числа и объекты вместо строки — ошибка декодирования, не паника
	for _, input := range []string{`7`, `5`, `{}`, `true`} {
		var clock ClockTime
		if err := json.Unmarshal([]byte(input), &clock); err == nil {
			t.Fatalf("expected error for token %s", input)
		}
	}
}

func TestDateTimeUnmarshalNonStringToken(t *testing.T) {
	for _, input := range []string{`5`, `0`, `{}`, `[]`, `true`} {
		var dt DateTime
		if err := json.Unmarshal([]byte(input), &dt); err == nil {
			t.Fatalf("expected error for token %s", input)
		}
	}
}

func TestDateTimeOrEmptyUnmarshalNonStringToken(t *testing.T) {
	var dt DateTimeOrEmpty
	if err := json.Unmarshal([]byte(`5`), &dt); err == nil {
		t.Fatalf("expected error for numeric token")
	}
}

func TestDateTimeOrEmptyNull(t *testing.T) {
	var dt DateTimeOrEmpty
	if err := json.Unmarshal([]byte(`null`), &dt); err != nil {
		t.Fatalf("null must unmarshal cleanly: %v", err)
	}
	if !dt.Date.IsZero() {
		t.Fatalf("expected zero date for null")
	}

	data, err := json.Marshal(dt)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("zero date must marshal to null, got %s", data)
	}
}
