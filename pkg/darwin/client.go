package darwin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hooklift/gowsdl/soap"

	"stationboard/pkg/board"
)

const userAgent = "stationboard/1.0"

// ErrEmptyResponse is returned when the service answers without a board.
var ErrEmptyResponse = errors.New("no data received")

// Client queries the Darwin OpenLDBWS departure board service.
type Client struct {
	httpClient *http.Client
	wsdlURL    string
	accessKey  string
	rows       int

	mu        sync.Mutex
	service   *soap.Client
	action    string
	namespace string
}

// NewClient creates a client for the service described at wsdlURL.
// The description is fetched on the first request, not here.
func NewClient(wsdlURL, accessKey string, rows int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		wsdlURL:    wsdlURL,
		accessKey:  accessKey,
		rows:       rows,
	}
}

// connect resolves the service description once. A failed resolution is
// retried on the next call.
func (c *Client) connect(ctx context.Context) (*soap.Client, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service != nil {
		return c.service, c.action, nil
	}

	desc, err := FetchServiceDescription(ctx, c.httpClient, c.wsdlURL)
	if err != nil {
		return nil, "", err
	}

	svc := soap.NewClient(desc.Endpoint, soap.WithHTTPClient(c.httpClient))
	svc.AddHeader(AccessToken{TokenValue: c.accessKey})

	c.service = svc
	c.action = desc.DepartureBoardAction
	c.namespace = desc.TargetNamespace
	return c.service, c.action, nil
}

// FetchStationBoard issues a single GetDepartureBoard call.
func (c *Client) FetchStationBoard(ctx context.Context, crs string) (*StationBoard, error) {
	svc, action, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	ns := c.namespace
	c.mu.Unlock()

	req := &GetDepartureBoardRequest{
		Namespace: ns,
		NumRows:   c.rows,
		Crs:       crs,
	}
	resp := new(GetDepartureBoardResponse)

	if err := svc.CallContext(ctx, action, req, resp); err != nil {
		return nil, fmt.Errorf("GetDepartureBoard %s: %w", crs, err)
	}
	if resp.GetStationBoardResult == nil {
		return nil, ErrEmptyResponse
	}

	return resp.GetStationBoardResult, nil
}

// FetchDepartures implements board.Fetcher.
func (c *Client) FetchDepartures(ctx context.Context, crs string) (*board.Result, error) {
	sb, err := c.FetchStationBoard(ctx, crs)
	if err != nil {
		return nil, err
	}
	return ToResult(sb), nil
}

// ToResult maps a station board onto display rows, keeping service order.
func ToResult(sb *StationBoard) *board.Result {
	res := &board.Result{
		LocationName: sb.LocationName,
		GeneratedAt:  sb.GeneratedAt,
		Messages:     cleanMessages(sb.NrccMessages),
	}

	if sb.TrainServices == nil {
		return res
	}

	for _, s := range sb.TrainServices.Service {
		res.Departures = append(res.Departures, board.Departure{
			Scheduled:    s.Std,
			Destination:  destinationName(s.Destination),
			Status:       s.Etd,
			Platform:     s.Platform,
			Operator:     s.Operator,
			Cars:         s.Length,
			Cancelled:    s.IsCancelled,
			CancelReason: s.CancelReason,
			DelayReason:  s.DelayReason,
		})
	}

	return res
}

// destinationName joins split-train destinations, e.g. "Exeter St Davids & Paignton".
func destinationName(list *LocationList) string {
	if list == nil {
		return ""
	}

	names := make([]string, 0, len(list.Location))
	for _, loc := range list.Location {
		name := loc.LocationName
		if loc.Via != "" {
			name += " " + loc.Via
		}
		names = append(names, name)
	}
	return strings.Join(names, " & ")
}
