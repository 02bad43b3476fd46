package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

const dateOnly = "2006-01-02"

// Layouts with a time component. Values without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseInstant parses raw as either a full instant or a bare date. For a
// bare date the result is midnight UTC and dateOnly is true.
func parseInstant(raw string) (t time.Time, isDateOnly bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t.UTC(), true, true
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), false, true
		}
	}
	return time.Time{}, false, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// ParseDueDate parses a due date. A bare date means the end of that day, so
// that a book due "today" can still be borrowed today.
func ParseDueDate(raw string) (time.Time, bool) {
	t, isDate, ok := parseInstant(raw)
	if !ok {
		return time.Time{}, false
	}
	if isDate {
		return endOfDay(t), true
	}
	return t, true
}

// maxEpochMillis is the largest distance from the epoch a due date given in
// milliseconds may have.
const maxEpochMillis = 8.64e15

// parseDueDateValue accepts every form a decoded dueDate can take: a date
// or instant string, or a number of milliseconds since the Unix epoch.
func parseDueDateValue(v any) (time.Time, bool) {
	var ms float64
	switch d := v.(type) {
	case string:
		return ParseDueDate(d)
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return time.Time{}, false
		}
		ms = f
	case float64:
		ms = d
	case int:
		ms = float64(d)
	case int64:
		ms = float64(d)
	default:
		return time.Time{}, false
	}
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// parseBound parses one end of a date-range filter. Bare dates widen to the
// whole day: 00:00:00.000 for a lower bound, 23:59:59.999 for an upper one.
func parseBound(raw string, upper bool) (time.Time, bool) {
	t, isDate, ok := parseInstant(raw)
	if !ok {
		return time.Time{}, false
	}
	if isDate && upper {
		return endOfDay(t), true
	}
	return t, true
}

// LastMonth returns the first and last millisecond of the calendar month
// before now, in UTC.
func LastMonth(now time.Time) (from, to time.Time) {
	y, m, _ := now.UTC().Date()
	thisMonth := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return thisMonth.AddDate(0, -1, 0), thisMonth.Add(-time.Millisecond)
}

// BorrowQuery holds the raw report filters as received.
type BorrowQuery struct {
	State     string
	StartDate string
	EndDate   string
	LastMonth string
}

// ParseBorrowFilter validates q and builds the filter evaluated at now.
func ParseBorrowFilter(q BorrowQuery, now time.Time) (entities.BorrowFilter, error) {
	now = now.UTC()
	filter := entities.BorrowFilter{Now: now}

	state, ok := entities.ParseBorrowState(strings.TrimSpace(q.State))
	if !ok {
		return filter, apperr.BusinessRule(apperr.CodeInvalidState, "state",
			"Invalid state. Allowed values: active, overdue, returned, all")
	}
	filter.State = state

	lastMonth := false
	if s := strings.TrimSpace(q.LastMonth); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return filter, invalidDateFilter("lastMonth", "lastMonth must be true or false")
		}
		lastMonth = v
	}

	start, end := strings.TrimSpace(q.StartDate), strings.TrimSpace(q.EndDate)
	if lastMonth {
		if start != "" || end != "" {
			return filter, invalidDateFilter("lastMonth", "lastMonth cannot be combined with startDate or endDate")
		}
		from, to := LastMonth(now)
		filter.From, filter.To = &from, &to
		return filter, nil
	}

	if start != "" {
		from, ok := parseBound(start, false)
		if !ok {
			return filter, invalidDateFilter("startDate", "Invalid startDate")
		}
		filter.From = &from
	}
	if end != "" {
		to, ok := parseBound(end, true)
		if !ok {
			return filter, invalidDateFilter("endDate", "Invalid endDate")
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, invalidDateFilter("startDate", "startDate must not be after endDate")
	}
	return filter, nil
}

func invalidDateFilter(field, message string) error {
	return apperr.Validation(apperr.FieldError{Field: field, Message: message, Code: apperr.CodeInvalidDateFilter})
}
