package domain

import "fmt"

// MalformedRecordError — одиночная битая запись во входных данных.
// Такая запись пропускается с предупреждением, агрегация продолжается:
// одна испорченная строка не должна гасить весь календарь.
type MalformedRecordError struct {
	Resource string
	ID       string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s %s: %s", e.Resource, e.ID, e.Reason)
}

// InvalidConfigurationError — ошибка настроек календаря.
// Это ошибка программирования, вызов отклоняется целиком.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid calendar configuration: %s", e.Reason)
}
