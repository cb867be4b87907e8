package darwin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// cacheDuration determines how long a parsed service description is reused
const cacheDuration = time.Hour

// CacheEntry represents the disk data format
type CacheEntry struct {
	Timestamp   time.Time          `json:"timestamp"`
	URL         string             `json:"url"`
	Description ServiceDescription `json:"description"`
}

func getCachePath(wsdlURL string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}

	cacheDir := filepath.Join(homeDir, ".stationboard_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("could not create cache directory: %w", err)
	}

	// WSDL URLs carry query strings, so name the file after a hash
	sum := sha256.Sum256([]byte(wsdlURL))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:8])+".json"), nil
}

// readCache checks if a valid, unexpired description exists for this URL
func readCache(wsdlURL string) (*ServiceDescription, bool) {
	path, err := getCachePath(wsdlURL)
	if err != nil {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.URL != wsdlURL || entry.Description.Endpoint == "" {
		return nil, false
	}

	if time.Since(entry.Timestamp) > cacheDuration {
		return nil, false
	}

	desc := entry.Description
	return &desc, true
}

// writeCache saves the description to disk. Failures only cost a refetch.
func writeCache(wsdlURL string, desc *ServiceDescription) {
	path, err := getCachePath(wsdlURL)
	if err != nil {
		return
	}

	entry := CacheEntry{
		Timestamp:   time.Now(),
		URL:         wsdlURL,
		Description: *desc,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}

	_ = os.WriteFile(path, data, 0644)
}
