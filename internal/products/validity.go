package products

import (
	"fmt"
	"time"
)

// ValidityBand classifies a product's expiration date relative to today.
type ValidityBand int

const (
	// ValidityNone means the product has no expiration date.
	ValidityNone ValidityBand = iota
	// ValidityNormal means the date is more than seven days away.
	ValidityNormal
	// ValidityExpiringSoon means the date is within the next seven days.
	ValidityExpiringSoon
	// ValidityExpired means the date has already passed.
	ValidityExpired
)

// ValidityStatus pairs the band with the display string used by listings
// and exports, e.g. "15/09/2026 (Vence em 3d)".
type ValidityStatus struct {
	Band ValidityBand
	Text string
}

// Validity classifies an optional expiration date against today. Both
// dates are normalized to midnight before the whole-day difference is
// taken, matching how the console always displayed validity.
func Validity(date *time.Time, today time.Time) ValidityStatus {
	if date == nil {
		return ValidityStatus{Band: ValidityNone, Text: "N/A"}
	}

	// Midnight in UTC keeps the difference an exact multiple of 24h,
	// so a daylight saving shift cannot shorten the window.
	startOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	d := startOfDay(*date)
	t := startOfDay(today)

	days := int(d.Sub(t).Hours() / 24)
	formatted := d.Format("02/01/2006")

	switch {
	case days < 0:
		return ValidityStatus{Band: ValidityExpired, Text: fmt.Sprintf("%s (Vencido)", formatted)}
	case days <= 7:
		return ValidityStatus{Band: ValidityExpiringSoon, Text: fmt.Sprintf("%s (Vence em %dd)", formatted, days)}
	default:
		return ValidityStatus{Band: ValidityNormal, Text: formatted}
	}
}
