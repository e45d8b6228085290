package domain

import (
	"fmt"
	"time"
)

const (
	dateLayout = "Monday, 2 January 2006"
	timeLayout = "3:04 PM"
)

// observationLayouts are the timestamp shapes seen from Open-Meteo, most common first.
var observationLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// FormatObservation returns the date as "Wednesday, 1 May 2024" and the time
// as "10:00 AM". With a nil viewer the wall clock t carries is shown as is, so
// the reported observation time does not depend on the process zone.
// Otherwise t is converted into viewer first.
func FormatObservation(t time.Time, viewer *time.Location) (date, clockTime string) {
	if viewer != nil {
		t = t.In(viewer)
	}
	return t.Format(dateLayout), t.Format(timeLayout)
}

// ParseObservationTime parses an Open-Meteo timestamp. Timestamps without an
// offset are wall-clock times in a zone utcOffsetSeconds east of UTC. RFC 3339
// timestamps carry their own offset and ignore utcOffsetSeconds.
func ParseObservationTime(raw string, utcOffsetSeconds int) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	zone := time.FixedZone("", utcOffsetSeconds)
	for _, layout := range observationLayouts {
		if t, err := time.ParseInLocation(layout, raw, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse observation time %q", raw)
}
