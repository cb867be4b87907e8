package tui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stationboard/pkg/config"
)

// DefaultWSDL is the current public OpenLDBWS service description.
const DefaultWSDL = "https://lite.realtime.nationalrail.co.uk/OpenLDBWS/wsdl.aspx?ver=2021-11-01"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// RunConfigInit asks for the mandatory settings and writes a board file to path.
func RunConfigInit(path string) error {
	cfg := config.Default()
	cfg.SOAP.WSDL = DefaultWSDL

	rows := "10"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Darwin access token").
				Description("Register at the National Rail Enquiries open data portal").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SOAP.Key).
				Validate(required("access token")),

			huh.NewInput().
				Title("Service description (WSDL) URL").
				Value(&cfg.SOAP.WSDL).
				Validate(validateURL),

			huh.NewInput().
				Title("Station CRS code").
				Placeholder("PAD").
				CharLimit(3).
				Value(&cfg.Station.CRS).
				Validate(validateCRS),

			huh.NewSelect[string]().
				Title("Rows to show").
				Options(huh.NewOptions("5", "10", "15", "20")...).
				Value(&rows),
		),
	).WithTheme(GetCustomTheme(cfg.Display.HeadFgColour))

	if err := form.Run(); err != nil {
		return err
	}

	if n, err := strconv.Atoi(rows); err == nil {
		cfg.Display.Rows = n
	}
	cfg.Station.CRS = strings.ToUpper(strings.TrimSpace(cfg.Station.CRS))

	if err := config.Save(path, &cfg); err != nil {
		return err
	}

	// Read it back so a bad file never goes unnoticed
	if _, err := config.Load(path); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Saved %s but it does not load: %v", path, err)))
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Board configuration saved to %s\n", path)))
	return nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an absolute http(s) URL")
	}
	return nil
}

func validateCRS(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return fmt.Errorf("station codes are 3 letters, e.g. PAD")
	}
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("station codes are 3 letters, e.g. PAD")
		}
	}
	return nil
}
