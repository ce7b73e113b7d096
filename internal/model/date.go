package model

import (
	"strings"
	"time"
)

// ISODate layout дат на проводе.
const ISODate = "2006-01-02"

// Today returns the ISO date of now in its own location.
func Today(now time.Time) string {
	return now.Format(ISODate)
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// DisplayToISO converts "d.m.yyyy" to "yyyy-mm-dd"; ok is false for anything else.
func DisplayToISO(value string) (string, bool) {
	normalized := strings.Join(strings.Fields(value), "")
	if normalized == "" {
		return "", false
	}
	parts := strings.Split(normalized, ".")
	if len(parts) != 3 {
		return "", false
	}
	day, month, year := parts[0], parts[1], parts[2]
	if day == "" || month == "" || len(year) != 4 {
		return "", false
	}
	return year + "-" + pad2(month) + "-" + pad2(day), true
}

// ISOToDisplay converts "yyyy-mm-dd[Thh...]" to "dd.mm.yyyy". Values already in
// display form, and values it cannot parse, are returned unchanged.
func ISOToDisplay(value string) string {
	if value == "" || strings.Contains(value, ".") {
		return value
	}
	datePart := strings.SplitN(value, "T", 2)[0]
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return value
	}
	return pad2(parts[2]) + "." + pad2(parts[1]) + "." + parts[0]
}

// NormalizeToISO accepts either form and returns the ISO date part.
func NormalizeToISO(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if strings.Contains(value, "-") {
		return strings.SplitN(value, "T", 2)[0], true
	}
	return DisplayToISO(value)
}
