package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout - формат календарной даты на проводе.
const DateLayout = "2006-01-02"

// Date сериализуется в JSON как календарная дата yyyy-mm-dd без времени.
type Date struct {
	time.Time
}

// NewDate усекает момент времени до календарной даты в UTC.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON сериализует дату в формате yyyy-mm-dd.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON разбирает дату в формате yyyy-mm-dd.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	d.Time = parsed
	return nil
}

// String возвращает дату в формате yyyy-mm-dd.
func (d Date) String() string {
	return d.Format(DateLayout)
}
