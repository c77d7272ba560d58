package dto

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDay interpreta "YYYY-MM-DD" o una fecha-hora ISO y devuelve la medianoche UTC de ese día.
func ParseDay(s string) (time.Time, error) {
	t, _, err := parseDateOrDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseRangeStart interpreta el inicio de un rango: fecha sola = 00:00 de ese día.
func ParseRangeStart(s string) (time.Time, error) {
	t, _, err := parseDateOrDateTime(s)
	return t, err
}

// ParseRangeEnd interpreta el fin de un rango: siempre se extiende hasta 23:59:59.999 del día indicado.
func ParseRangeEnd(s string) (time.Time, error) {
	t, _, err := parseDateOrDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location()), nil
}

// FormatDay representa una fecha como RFC 3339 a medianoche UTC (formato que espera el navegador).
func FormatDay(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05.000Z")
}

func parseDateOrDateTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("fecha vacía")
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, true, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("fecha inválida %q", s)
}
