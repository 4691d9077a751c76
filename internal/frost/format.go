package frost

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	notAvailable    = "N/A"
	notSpecified    = "No especificada"
	notDetermined   = "No determinada"
	missingCell     = "-"
	undeterminedTag = "No Determinado"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// timestampLayouts are tried in order. The backend emits naive ISO-8601 values
// which are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp as sent by the backend.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// LongDate renders t as "19 de octubre de 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// formatDate renders a wire timestamp following the convention of the flow:
// the manual flow shows the day in UTC, the others add hour and minute.
func formatDate(raw string, flow Flow) string {
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return notAvailable
	}
	if flow == FlowManual {
		return LongDate(ts) + " (UTC)"
	}
	return LongDate(ts) + ", " + ts.Format("15:04")
}

// formatRowTime renders the timestamp column of the forecast table.
func formatRowTime(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return missingCell
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return notAvailable
	}
	return ts.Format("02/01/2006 15:04")
}

// FormatHours renders an hour count with one decimal, rounding half away from zero.
func FormatHours(h float64) string {
	return decimal.NewFromFloat(h).StringFixed(1) + " horas"
}

// formatProbability renders a 0..1 probability as a whole percentage.
func formatProbability(p *float64) string {
	if p == nil {
		return notAvailable
	}
	return decimal.NewFromFloat(*p).Shift(2).StringFixed(0) + " %"
}

func formatTemperature(t *float64) string {
	if t == nil {
		return notAvailable
	}
	return decimal.NewFromFloat(*t).StringFixed(1) + " °C"
}

// formatDuration renders a nullable duration. The manual flow and the other
// flows use different placeholders for a null value.
func formatDuration(h *float64, flow Flow) string {
	if h == nil {
		if flow == FlowManual {
			return notDetermined
		}
		return notAvailable
	}
	return FormatHours(*h)
}

func formatIntensity(s string, flow Flow) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	if flow == FlowManual {
		return notDetermined
	}
	return notAvailable
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// resultLabel is resultado with underscores as spaces.
func resultLabel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return undeterminedTag
	}
	return strings.ReplaceAll(raw, "_", " ")
}
