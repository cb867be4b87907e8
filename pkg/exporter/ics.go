package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"stationboard/pkg/board"
)

// rolloverWindow decides when a board time belongs to the next day: a
// board generated at 23:50 listing 00:10 means tomorrow.
const rolloverWindow = 12 * time.Hour

// GenerateICS writes one calendar event per departure on the board.
// Times are interpreted in loc on the day the board was generated.
func GenerateICS(s board.State, loc *time.Location, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	base := s.GeneratedAt
	if base.IsZero() {
		base = s.UpdatedAt
	}
	if base.IsZero() {
		base = time.Now()
	}
	base = base.In(loc)

	station := s.LocationName
	if station == "" {
		station = s.StationCode
	}

	for i, d := range s.Departures {
		start, err := departureTime(base, d.Scheduled)
		if err != nil {
			continue // Skip rows without a clock time
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@stationboard", s.StationCode, start.Format("20060102T1504"), i))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetModifiedAt(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Minute))
		event.SetSummary(fmt.Sprintf("🚆 %s to %s", d.Scheduled, d.Destination))

		location := station
		if d.Platform != "" {
			location = fmt.Sprintf("Platform %s, %s", d.Platform, station)
		}
		event.SetLocation(location)
		event.SetDescription(describe(d))
	}

	return cal.SerializeTo(w)
}

func departureTime(base time.Time, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", strings.TrimSpace(hhmm), base.Location())
	if err != nil {
		return time.Time{}, err
	}

	start := time.Date(base.Year(), base.Month(), base.Day(), t.Hour(), t.Minute(), 0, 0, base.Location())
	if base.Sub(start) > rolloverWindow {
		start = start.AddDate(0, 0, 1)
	}
	return start, nil
}

func describe(d board.Departure) string {
	var lines []string
	if d.Status != "" {
		lines = append(lines, "Expected: "+d.Status)
	}
	if d.Operator != "" {
		lines = append(lines, "Operator: "+d.Operator)
	}
	if d.Cars > 0 {
		lines = append(lines, fmt.Sprintf("Cars: %d", d.Cars))
	}
	if reason := d.Reason(); reason != "" {
		lines = append(lines, reason)
	}
	return strings.Join(lines, "\n")
}
