package board

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

// scriptedFetcher answers each call with the next scripted response.
type scriptedFetcher struct {
	results []*Result
	errs    []error
	calls   int
	crs     []string
}

func (f *scriptedFetcher) FetchDepartures(ctx context.Context, crs string) (*Result, error) {
	i := f.calls
	f.calls++
	f.crs = append(f.crs, crs)
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], f.errs[i]
}

func TestCycle_ExampleBoard(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: []*Result{{
			LocationName: "London Paddington",
			Departures: []Departure{
				{Scheduled: "10:02", Destination: "Oxford", Status: "On time"},
				{Scheduled: "10:15", Destination: "Reading", Status: "10:19"},
			},
		}},
		errs: []error{nil},
	}

	r := NewRefresher(fetcher, "PAD")
	state := r.Cycle(context.Background())

	if state.Failed() {
		t.Fatalf("expected successful state, got error: %v", state.Err)
	}

	want := []string{"10:02 Oxford", "10:15 Reading"}
	if got := state.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected rows %v, got %v", want, got)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected exactly one request per cycle, got %d", fetcher.calls)
	}
	if fetcher.crs[0] != "PAD" {
		t.Errorf("expected request for PAD, got %s", fetcher.crs[0])
	}
	if state.Title() != "Departures from London Paddington" {
		t.Errorf("unexpected title %q", state.Title())
	}
}

func TestCycle_ErrorThenRecovery(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: []*Result{
			{Departures: []Departure{{Scheduled: "09:00", Destination: "Bristol"}}, LocationName: "Bath Spa"},
			nil,
			{Departures: []Departure{{Scheduled: "09:30", Destination: "Cardiff"}}},
		},
		errs: []error{nil, errors.New("connection refused"), nil},
	}

	r := NewRefresher(fetcher, "BTH")

	_ = r.Cycle(context.Background())

	failed := r.Cycle(context.Background())
	if !failed.Failed() {
		t.Fatalf("expected error state after failing fetch")
	}
	if len(failed.Departures) != 0 {
		t.Errorf("error state must not carry stale rows, got %v", failed.Lines())
	}
	if failed.Outcome() != OutcomeError {
		t.Errorf("expected error outcome, got %s", failed.Outcome())
	}
	// Heading survives the failure
	if failed.LocationName != "Bath Spa" {
		t.Errorf("expected location name to persist across failures, got %q", failed.LocationName)
	}

	recovered := r.Cycle(context.Background())
	if recovered.Failed() {
		t.Fatalf("expected recovery, got error: %v", recovered.Err)
	}
	if want := []string{"09:30 Cardiff"}; !reflect.DeepEqual(recovered.Lines(), want) {
		t.Errorf("expected %v after recovery, got %v", want, recovered.Lines())
	}
}

func TestCycle_ConsecutiveResultsReplaceWholesale(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: []*Result{
			{Departures: []Departure{
				{Scheduled: "10:00", Destination: "Oxford"},
				{Scheduled: "10:10", Destination: "Didcot Parkway"},
				{Scheduled: "10:20", Destination: "Swindon"},
			}},
			{Departures: []Departure{
				{Scheduled: "10:10", Destination: "Didcot Parkway"},
			}},
		},
		errs: []error{nil, nil},
	}

	r := NewRefresher(fetcher, "PAD")

	first := r.Cycle(context.Background())
	if len(first.Departures) != 3 {
		t.Fatalf("expected 3 rows after first cycle, got %d", len(first.Departures))
	}

	second := r.Cycle(context.Background())
	if want := []string{"10:10 Didcot Parkway"}; !reflect.DeepEqual(second.Lines(), want) {
		t.Errorf("expected only the second response %v, got %v", want, second.Lines())
	}
}

func TestCycle_DoesNotAliasFetcherSlice(t *testing.T) {
	res := &Result{Departures: []Departure{{Scheduled: "11:00", Destination: "Reading"}}}
	r := NewRefresher(FetcherFunc(func(ctx context.Context, crs string) (*Result, error) {
		return res, nil
	}), "PAD")

	state := r.Cycle(context.Background())
	res.Departures[0].Destination = "Mutated"

	if state.Departures[0].Destination != "Reading" {
		t.Errorf("state must own its rows, got %q", state.Departures[0].Destination)
	}
}

func TestCycle_EmptyBoardIsNotAnError(t *testing.T) {
	r := NewRefresher(FetcherFunc(func(ctx context.Context, crs string) (*Result, error) {
		return &Result{LocationName: "Quiet Halt"}, nil
	}), "QTH")

	state := r.Cycle(context.Background())
	if state.Failed() {
		t.Fatalf("expected empty board to be a valid state, got %v", state.Err)
	}
	if state.Outcome() != OutcomeEmpty {
		t.Errorf("expected empty outcome, got %s", state.Outcome())
	}
}

func TestCycle_NilResultIsAnError(t *testing.T) {
	r := NewRefresher(FetcherFunc(func(ctx context.Context, crs string) (*Result, error) {
		return nil, nil
	}), "PAD")

	if state := r.Cycle(context.Background()); !state.Failed() {
		t.Errorf("expected nil result to produce an error state")
	}
}

type recordingObserver struct {
	outcomes []Outcome
	rows     []int
}

func (o *recordingObserver) ObserveCycle(outcome Outcome, took time.Duration, rows int) {
	o.outcomes = append(o.outcomes, outcome)
	o.rows = append(o.rows, rows)
}

func TestCycle_ReportsToObserver(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: []*Result{{Departures: []Departure{{Scheduled: "10:02", Destination: "Oxford"}}}, nil},
		errs:    []error{nil, errors.New("fault")},
	}
	obs := &recordingObserver{}
	r := NewRefresher(fetcher, "PAD", WithObserver(obs))

	r.Cycle(context.Background())
	r.Cycle(context.Background())

	if !reflect.DeepEqual(obs.outcomes, []Outcome{OutcomeOK, OutcomeError}) {
		t.Errorf("unexpected outcomes %v", obs.outcomes)
	}
	if !reflect.DeepEqual(obs.rows, []int{1, 0}) {
		t.Errorf("unexpected row counts %v", obs.rows)
	}
}

func TestRun_CyclesNeverOverlap(t *testing.T) {
	var inFlight, maxInFlight, calls int32

	fetcher := FetcherFunc(func(ctx context.Context, crs string) (*Result, error) {
		n := atomic.AddInt32(&inFlight, 1)
		if n > atomic.LoadInt32(&maxInFlight) {
			atomic.StoreInt32(&maxInFlight, n)
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&calls, 1)
		return &Result{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renders := 0
	r := NewRefresher(fetcher, "PAD")
	err := r.Run(ctx, time.Millisecond, func(s State) {
		renders++
		if renders == 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if renders != 3 {
		t.Errorf("expected 3 renders before cancellation, got %d", renders)
	}
	if maxInFlight != 1 {
		t.Errorf("expected at most one cycle in flight, saw %d", maxInFlight)
	}
}

func TestRun_RejectsNonPositiveInterval(t *testing.T) {
	r := NewRefresher(FetcherFunc(func(ctx context.Context, crs string) (*Result, error) {
		return &Result{}, nil
	}), "PAD")

	if err := r.Run(context.Background(), 0, func(State) {}); err == nil {
		t.Errorf("expected error for zero interval")
	}
}

func TestDepartureReason(t *testing.T) {
	tests := []struct {
		d    Departure
		want string
	}{
		{Departure{Cancelled: true, CancelReason: "signal failure", DelayReason: "late crew"}, "signal failure"},
		{Departure{DelayReason: "late crew"}, "late crew"},
		{Departure{CancelReason: "partially cancelled", DelayReason: "late crew"}, ""},
		{Departure{}, ""},
	}

	for _, tt := range tests {
		if got := tt.d.Reason(); got != tt.want {
			t.Errorf("Reason() for %+v = %q, want %q", tt.d, got, tt.want)
		}
	}
}
