package darwin

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const soap11Namespace = "http://schemas.xmlsoap.org/wsdl/soap/"

// ServiceDescription is the part of the WSDL needed to place a call.
type ServiceDescription struct {
	Endpoint             string `json:"endpoint"`
	DepartureBoardAction string `json:"departure_board_action"`
	TargetNamespace      string `json:"target_namespace,omitempty"`
}

type wsdlDefinitions struct {
	TargetNamespace string        `xml:"targetNamespace,attr"`
	Bindings        []wsdlBinding `xml:"binding"`
	Services        []wsdlService `xml:"service"`
}

type wsdlBinding struct {
	Name       string                 `xml:"name,attr"`
	Operations []wsdlBindingOperation `xml:"operation"`
}

type wsdlBindingOperation struct {
	Name string `xml:"name,attr"`
	SOAP struct {
		Action string `xml:"soapAction,attr"`
	} `xml:"operation"`
}

type wsdlService struct {
	Name  string     `xml:"name,attr"`
	Ports []wsdlPort `xml:"port"`
}

type wsdlPort struct {
	Name    string `xml:"name,attr"`
	Address struct {
		XMLName  xml.Name
		Location string `xml:"location,attr"`
	} `xml:"address"`
}

// ParseServiceDescription extracts the SOAP endpoint and the
// GetDepartureBoard action from a WSDL document.
func ParseServiceDescription(r io.Reader) (*ServiceDescription, error) {
	var defs wsdlDefinitions
	if err := xml.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("failed to decode service description: %w", err)
	}

	desc := &ServiceDescription{
		TargetNamespace:      defs.TargetNamespace,
		DepartureBoardAction: defaultDepartureBoardAction,
	}

	// Prefer SOAP 1.1 ports, fall back to whatever address comes first
ports:
	for _, svc := range defs.Services {
		for _, port := range svc.Ports {
			if port.Address.Location == "" {
				continue
			}
			if port.Address.XMLName.Space == soap11Namespace {
				desc.Endpoint = port.Address.Location
				break ports
			}
			if desc.Endpoint == "" {
				desc.Endpoint = port.Address.Location
			}
		}
	}
	if desc.Endpoint == "" {
		return nil, errors.New("service description has no SOAP endpoint address")
	}

	for _, b := range defs.Bindings {
		for _, op := range b.Operations {
			if op.Name == "GetDepartureBoard" && op.SOAP.Action != "" {
				desc.DepartureBoardAction = op.SOAP.Action
				return desc, nil
			}
		}
	}

	return desc, nil
}

// FetchServiceDescription downloads and parses the WSDL at wsdlURL,
// consulting the on-disk cache first.
func FetchServiceDescription(ctx context.Context, httpClient *http.Client, wsdlURL string) (*ServiceDescription, error) {
	if desc, ok := readCache(wsdlURL); ok {
		return desc, nil
	}

	resp, err := getWithRetries(ctx, httpClient, wsdlURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service description: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code fetching service description: %d", resp.StatusCode)
	}

	desc, err := ParseServiceDescription(resp.Body)
	if err != nil {
		return nil, err
	}

	writeCache(wsdlURL, desc)
	return desc, nil
}

// getWithRetries attempts an HTTP GET up to 3 times for 502/503/504/transport errors
func getWithRetries(ctx context.Context, httpClient *http.Client, reqURL string) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, lastErr = httpClient.Do(req)

		if lastErr == nil && (resp.StatusCode == 503 || resp.StatusCode == 504 || resp.StatusCode == 502) {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else if lastErr == nil {
			return resp, nil
		}

		if attempt == 2 {
			break
		}

		log.Printf("darwin: service description unavailable, retrying (attempt %d/3): %v", attempt+1, lastErr)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay(attempt)):
		}
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// retryDelay is a variable so tests can shorten it.
var retryDelay = func(attempt int) time.Duration {
	return time.Duration(attempt+1) * time.Second
}
