package darwin

import (
	"encoding/json"
	"os"
	"reflect"
	"testing"
	"time"
)

func TestCacheReadWrite(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	wsdlURL := "https://example.test/OpenLDBWS/wsdl.aspx?ver=2017-10-01"

	// 1. Read non-existent cache
	desc, ok := readCache(wsdlURL)
	if ok || desc != nil {
		t.Errorf("expected readCache to fail for non-existent cache, but got success")
	}

	// 2. Write cache
	want := &ServiceDescription{
		Endpoint:             "https://example.test/OpenLDBWS/ldb11.asmx",
		DepartureBoardAction: defaultDepartureBoardAction,
	}
	writeCache(wsdlURL, want)

	cachePath, err := getCachePath(wsdlURL)
	if err != nil {
		t.Fatalf("unexpected error resolving cache path: %v", err)
	}
	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		t.Errorf("expected cache file to be created at %s", cachePath)
	}

	// 3. Read existing valid cache
	got, ok := readCache(wsdlURL)
	if !ok {
		t.Fatalf("expected readCache to succeed for existing cache, but failed")
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("loaded description does not match written one.\nGot: %+v\nExpected: %+v", got, want)
	}

	// 4. A different URL never sees this entry
	if _, ok := readCache(wsdlURL + "&ver=2021-11-01"); ok {
		t.Errorf("expected cache miss for a different URL")
	}
}

func TestCacheExpiration(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	wsdlURL := "https://example.test/expired.wsdl"

	cachePath, err := getCachePath(wsdlURL)
	if err != nil {
		t.Fatalf("unexpected error resolving cache path: %v", err)
	}

	entry := CacheEntry{
		Timestamp:   time.Now().Add(-2 * time.Hour),
		URL:         wsdlURL,
		Description: ServiceDescription{Endpoint: "https://example.test/old.asmx"},
	}
	data, _ := json.Marshal(entry)
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		t.Fatalf("failed to write stale cache entry: %v", err)
	}

	if _, ok := readCache(wsdlURL); ok {
		t.Errorf("expected readCache to reject expired entry (2h old, limit is 1h), but it succeeded")
	}
}
