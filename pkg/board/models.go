package board

import (
	"context"
	"time"
)

// Departure is a single train leaving the station, as shown on one board row.
type Departure struct {
	Scheduled   string // "HH:MM"
	Destination string
	Status      string // "On time", "Delayed", "Cancelled" or an estimated "HH:MM"
	Platform    string // empty when unknown
	Operator    string
	Cars        int // zero when unknown

	Cancelled    bool
	CancelReason string
	DelayReason  string
}

// String renders the departure as "<scheduled> <destination>".
func (d Departure) String() string {
	return d.Scheduled + " " + d.Destination
}

// Reason returns the text shown beneath the row: the cancel reason for a
// cancelled service, otherwise the delay reason.
func (d Departure) Reason() string {
	if d.Cancelled && d.CancelReason != "" {
		return d.CancelReason
	}
	if d.CancelReason == "" {
		return d.DelayReason
	}
	return ""
}

// Result is one successful answer from the timetable service.
type Result struct {
	LocationName string
	GeneratedAt  time.Time
	Departures   []Departure
	Messages     []string
}

// Fetcher is the remote timetable capability the board is built on.
type Fetcher interface {
	FetchDepartures(ctx context.Context, crs string) (*Result, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, crs string) (*Result, error)

func (f FetcherFunc) FetchDepartures(ctx context.Context, crs string) (*Result, error) {
	return f(ctx, crs)
}
