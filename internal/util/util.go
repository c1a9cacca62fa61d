package util

import (
	"strings"
	"time"
)

// MaskPhone obscures a phone number for logging, showing only the first and
// last few digits.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) > 7 {
		return phone[:3] + "****" + phone[len(phone)-2:]
	}
	if len(phone) > 3 {
		return phone[:1] + "****"
	}
	return "****"
}

// DayKey formats a time as the calendar-day key used by daily check-ins.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
