package tui

import "testing"

func TestValidateCRS(t *testing.T) {
	for _, ok := range []string{"PAD", "rdg", " OXF "} {
		if err := validateCRS(ok); err != nil {
			t.Errorf("expected %q to be accepted, got %v", ok, err)
		}
	}
	for _, bad := range []string{"", "PA", "PADD", "P4D"} {
		if err := validateCRS(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := validateURL(DefaultWSDL); err != nil {
		t.Errorf("expected default WSDL to validate, got %v", err)
	}
	if err := validateURL("lite.realtime.nationalrail.co.uk"); err == nil {
		t.Errorf("expected URL without scheme to be rejected")
	}
}
