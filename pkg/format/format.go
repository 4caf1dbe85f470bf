// Package format holds the display-only transforms applied to raw order
// fields. Nothing here may be used for sorting or comparison.
package format

import (
	"fmt"
	"strings"
	"time"
)

// DateTime combines a raw date (YYYY-MM-DD) and time (HH:MM or HH:MM:SS)
// into "MM/DD/YYYY at H:MM AM/PM" in the local time zone. Hour 0 renders as
// 12. Missing or unparseable input degrades to the empty string.
func DateTime(date, timeOfDay string) string {
	if date == "" || timeOfDay == "" {
		return ""
	}

	combined := date + "T" + timeOfDay
	t, err := time.ParseInLocation("2006-01-02T15:04:05", combined, time.Local)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02T15:04", combined, time.Local)
		if err != nil {
			return ""
		}
	}

	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%02d/%02d/%04d at %d:%02d %s",
		int(t.Month()), t.Day(), t.Year(), hour, t.Minute(), ampm)
}

// PhoneNumber renders a raw phone string as XXX-XXX-XXXX when it strips down
// to exactly ten digits; anything else comes back unchanged. Best-effort
// formatting, not validation.
func PhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) != 10 {
		return phone
	}
	return d[0:3] + "-" + d[3:6] + "-" + d[6:10]
}
