package darwin

import (
	"encoding/xml"
	"time"
)

const (
	// ldbNamespace is the 2017-10-01 LDB schema served by OpenLDBWS ldb11.
	// Requests use it when the service description names no namespace.
	ldbNamespace = "http://thalesgroup.com/RTTI/2017-10-01/ldb/"

	// defaultDepartureBoardAction is used when the service description
	// does not carry the binding itself.
	defaultDepartureBoardAction = "http://thalesgroup.com/RTTI/2012-01-13/ldb/GetDepartureBoard"
)

// AccessToken is the SOAP header that authenticates every request.
type AccessToken struct {
	XMLName    xml.Name `xml:"http://thalesgroup.com/RTTI/2013-11-28/Token/types AccessToken"`
	TokenValue string   `xml:"TokenValue"`
}

// GetDepartureBoardRequest asks for the next numRows departures from crs.
// Namespace is the service's target namespace, so a newer WSDL version
// changes the request element without a code change.
type GetDepartureBoardRequest struct {
	Namespace string `xml:"-"`
	NumRows   int    `xml:"numRows"`
	Crs       string `xml:"crs"`
}

func (r GetDepartureBoardRequest) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	ns := r.Namespace
	if ns == "" {
		ns = ldbNamespace
	}

	start.Name = xml.Name{Space: ns, Local: "GetDepartureBoardRequest"}
	start.Attr = nil

	body := struct {
		NumRows int    `xml:"numRows"`
		Crs     string `xml:"crs"`
	}{r.NumRows, r.Crs}
	return e.EncodeElement(body, start)
}

// GetDepartureBoardResponse wraps the returned station board.
type GetDepartureBoardResponse struct {
	XMLName               xml.Name      `xml:"GetDepartureBoardResponse"`
	GetStationBoardResult *StationBoard `xml:"GetStationBoardResult,omitempty"`
}

// StationBoard is the departure board for one location.
type StationBoard struct {
	GeneratedAt       time.Time    `xml:"generatedAt"`
	LocationName      string       `xml:"locationName"`
	Crs               string       `xml:"crs"`
	NrccMessages      *MessageList `xml:"nrccMessages"`
	PlatformAvailable bool         `xml:"platformAvailable"`
	TrainServices     *ServiceList `xml:"trainServices"`
	BusServices       *ServiceList `xml:"busServices"`
}

// MessageList holds the network-wide service messages for the board.
type MessageList struct {
	Message []Message `xml:"message"`
}

// Message is a single NRCC message. The text may contain HTML markup.
type Message struct {
	Value string `xml:",chardata"`
}

// ServiceList is a list of services of one mode.
type ServiceList struct {
	Service []ServiceItem `xml:"service"`
}

// ServiceItem is one departing service.
type ServiceItem struct {
	Std          string        `xml:"std"`
	Etd          string        `xml:"etd"`
	Platform     string        `xml:"platform"`
	Operator     string        `xml:"operator"`
	OperatorCode string        `xml:"operatorCode"`
	IsCancelled  bool          `xml:"isCancelled"`
	Length       int           `xml:"length"`
	CancelReason string        `xml:"cancelReason"`
	DelayReason  string        `xml:"delayReason"`
	ServiceID    string        `xml:"serviceID"`
	Origin       *LocationList `xml:"origin"`
	Destination  *LocationList `xml:"destination"`
}

// LocationList is the set of origins or destinations of a service.
type LocationList struct {
	Location []ServiceLocation `xml:"location"`
}

// ServiceLocation is a single origin or destination.
type ServiceLocation struct {
	LocationName string `xml:"locationName"`
	Crs          string `xml:"crs"`
	Via          string `xml:"via"`
}
