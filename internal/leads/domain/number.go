package domain

import "time"

// LeadNumber builds the human-facing lead number from the capture time in
// the configured sales timezone, e.g. "20250115-0930".
func LeadNumber(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("20060102-1504")
}
