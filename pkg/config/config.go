package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPath is the board file looked up in the working directory.
const DefaultPath = "StationBoard.toml"

// Limits imposed by the Darwin service on numRows.
const (
	minRows = 1
	maxRows = 150
)

// Config is the fully resolved board configuration.
type Config struct {
	SOAP    SOAPConfig    `toml:"SOAP"`
	Station StationConfig `toml:"station"`
	Display DisplayConfig `toml:"display"`
	Fonts   FontConfig    `toml:"fonts"`
}

// SOAPConfig holds the credentials and location of the remote service.
type SOAPConfig struct {
	Key  string `toml:"key"`
	WSDL string `toml:"wsdl"`
}

// StationConfig selects the board's station.
type StationConfig struct {
	CRS string `toml:"crs"`
}

// DisplayConfig holds the optional presentation settings.
type DisplayConfig struct {
	Rows         int    `toml:"rows,omitempty"`
	RefreshStr   string `toml:"refresh,omitempty"`
	BgColour     string `toml:"bgcolour,omitempty"`
	HeadFgColour string `toml:"headfgcolour,omitempty"`
	ItemFgColour string `toml:"itemfgcolour,omitempty"`
	PadX         int    `toml:"padx,omitempty"`

	Refresh time.Duration `toml:"-"`
}

// FontConfig is kept so board files can be shared with graphical displays.
// The terminal renderer only compares sizes to pick emphasis.
type FontConfig struct {
	Name   string `toml:"name,omitempty"`
	Normal int    `toml:"normal,omitempty"`
	Header int    `toml:"header,omitempty"`
	Time   int    `toml:"time,omitempty"`
}

// FieldError reports a missing or invalid configuration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Reason)
}

// Default returns a configuration with every optional field populated.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Rows:         10,
			RefreshStr:   "60s",
			Refresh:      60 * time.Second,
			BgColour:     "black",
			HeadFgColour: "white",
			ItemFgColour: "yellow",
			PadX:         2,
		},
		Fonts: FontConfig{
			Name:   "Arial",
			Normal: 24,
			Header: 36,
			Time:   24,
		},
	}
}

// Load reads the board file at path, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a board file held in memory.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	for _, key := range md.Undecoded() {
		log.Printf("config: ignoring unknown key %s", key.String())
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.SOAP.Key = strings.TrimSpace(cfg.SOAP.Key)
	cfg.SOAP.WSDL = strings.TrimSpace(cfg.SOAP.WSDL)
	cfg.Station.CRS = cases.Upper(language.BritishEnglish).String(strings.TrimSpace(cfg.Station.CRS))

	if cfg.SOAP.Key == "" {
		return &FieldError{Field: "SOAP.key", Reason: "missing"}
	}
	if cfg.SOAP.WSDL == "" {
		return &FieldError{Field: "SOAP.wsdl", Reason: "missing"}
	}
	u, err := url.Parse(cfg.SOAP.WSDL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FieldError{Field: "SOAP.wsdl", Reason: "must be an absolute http(s) URL"}
	}
	if cfg.Station.CRS == "" {
		return &FieldError{Field: "station.crs", Reason: "missing"}
	}
	if !isCRS(cfg.Station.CRS) {
		return &FieldError{Field: "station.crs", Reason: fmt.Sprintf("%q is not a 3-letter station code", cfg.Station.CRS)}
	}

	if cfg.Display.Rows < minRows || cfg.Display.Rows > maxRows {
		return &FieldError{Field: "display.rows", Reason: fmt.Sprintf("must be between %d and %d", minRows, maxRows)}
	}
	refresh, err := time.ParseDuration(cfg.Display.RefreshStr)
	if err != nil || refresh <= 0 {
		return &FieldError{Field: "display.refresh", Reason: fmt.Sprintf("%q is not a positive duration", cfg.Display.RefreshStr)}
	}
	cfg.Display.Refresh = refresh
	if cfg.Display.PadX < 0 {
		return &FieldError{Field: "display.padx", Reason: "must not be negative"}
	}

	return nil
}

func isCRS(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// MaskedKey returns the access key with all but the last four characters hidden.
func (cfg *Config) MaskedKey() string {
	k := cfg.SOAP.Key
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// Save writes the configuration to path as TOML.
func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	return nil
}
