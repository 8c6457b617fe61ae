package utils

import (
	"fmt"
	"time"
)

// FirstDayOfMonth возвращает полночь первого числа месяца, в котором лежит t.
func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ParseDate принимает дату в форматах "2006-01-02" или RFC3339.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("недопустимый формат даты: %q", value)
}
