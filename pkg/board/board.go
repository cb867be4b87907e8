package board

import (
	"context"
	"fmt"
	"time"
)

// Outcome labels a finished refresh cycle.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeEmpty Outcome = "empty"
	OutcomeError Outcome = "error"
)

// State is everything currently displayed on the board. A State is built
// whole by a single cycle and never patched afterwards.
type State struct {
	StationCode  string
	LocationName string
	GeneratedAt  time.Time
	UpdatedAt    time.Time

	Departures []Departure
	Messages   []string

	// Err is set when the cycle failed. Departures is always empty then.
	Err error
}

// Failed reports whether the board is showing an error.
func (s State) Failed() bool {
	return s.Err != nil
}

// Title is the board heading.
func (s State) Title() string {
	if s.LocationName == "" {
		return fmt.Sprintf("Departures from %s", s.StationCode)
	}
	return fmt.Sprintf("Departures from %s", s.LocationName)
}

// Lines returns the displayed rows as "<scheduled> <destination>" strings.
func (s State) Lines() []string {
	lines := make([]string, 0, len(s.Departures))
	for _, d := range s.Departures {
		lines = append(lines, d.String())
	}
	return lines
}

// Outcome classifies the state for metrics and status text.
func (s State) Outcome() Outcome {
	switch {
	case s.Err != nil:
		return OutcomeError
	case len(s.Departures) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}

// Observer is told about every finished cycle.
type Observer interface {
	ObserveCycle(outcome Outcome, took time.Duration, rows int)
}

// Refresher performs query-and-render cycles for one station.
type Refresher struct {
	fetcher  Fetcher
	crs      string
	observer Observer
	now      func() time.Time

	// lastName survives failed cycles so the heading stays stable.
	lastName string
}

// Option customises a Refresher.
type Option func(*Refresher)

// WithObserver reports each cycle to o.
func WithObserver(o Observer) Option {
	return func(r *Refresher) { r.observer = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

func NewRefresher(fetcher Fetcher, crs string, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher: fetcher,
		crs:     crs,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StationCode is the CRS code this refresher queries.
func (r *Refresher) StationCode() string {
	return r.crs
}

// Cycle issues exactly one request and builds a fresh State from it.
// Failures never escape: they are carried in State.Err.
func (r *Refresher) Cycle(ctx context.Context) State {
	start := r.now()
	state := r.cycle(ctx)
	state.UpdatedAt = r.now()

	if r.observer != nil {
		r.observer.ObserveCycle(state.Outcome(), state.UpdatedAt.Sub(start), len(state.Departures))
	}
	return state
}

func (r *Refresher) cycle(ctx context.Context) State {
	res, err := r.fetcher.FetchDepartures(ctx, r.crs)
	if err == nil && res == nil {
		err = fmt.Errorf("no data received")
	}
	if err != nil {
		return State{
			StationCode:  r.crs,
			LocationName: r.lastName,
			Err:          err,
		}
	}

	if res.LocationName != "" {
		r.lastName = res.LocationName
	}

	deps := make([]Departure, len(res.Departures))
	copy(deps, res.Departures)

	return State{
		StationCode:  r.crs,
		LocationName: r.lastName,
		GeneratedAt:  res.GeneratedAt,
		Departures:   deps,
		Messages:     append([]string(nil), res.Messages...),
	}
}

// Run cycles until ctx is cancelled, handing each State to render. The
// interval timer is armed only after a cycle and its render finish, so
// cycles never overlap.
func (r *Refresher) Run(ctx context.Context, interval time.Duration, render func(State)) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		state := r.Cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		render(state)

		timer.Reset(interval)
	}
}
