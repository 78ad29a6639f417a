package prices

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	// DefaultCacheFileName matches the version-controlled cache file name.
	DefaultCacheFileName = "price_data_latest.json"

	cacheReadErrorTemplateConstant   = "unable to read price cache %s: %w"
	cacheDecodeErrorTemplateConstant = "unable to decode price cache %s: %w"
	cacheWriteErrorTemplateConstant  = "unable to write price cache %s: %w"
	cacheFilePermissionsConstant     = 0o644
)

// CacheStore persists the raw price payload alongside the published page.
type CacheStore struct {
	filePath string
}

// NewCacheStore constructs a cache store for the provided file path.
func NewCacheStore(filePath string) *CacheStore {
	return &CacheStore{filePath: filePath}
}

// Path reports the cache file location.
func (store *CacheStore) Path() string {
	return store.filePath
}

// Read loads and decodes the cached price sheet.
func (store *CacheStore) Read() (PriceSheet, error) {
	payloadBytes, readError := os.ReadFile(store.filePath)
	if readError != nil {
		return PriceSheet{}, fmt.Errorf(cacheReadErrorTemplateConstant, store.filePath, readError)
	}

	var priceSheet PriceSheet
	if decodeError := json.Unmarshal(payloadBytes, &priceSheet); decodeError != nil {
		return PriceSheet{}, fmt.Errorf(cacheDecodeErrorTemplateConstant, store.filePath, decodeError)
	}

	return priceSheet, nil
}

// Write persists the raw payload bytes exactly as delivered by the API.
func (store *CacheStore) Write(payloadBytes []byte) error {
	if writeError := os.WriteFile(store.filePath, payloadBytes, cacheFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(cacheWriteErrorTemplateConstant, store.filePath, writeError)
	}
	return nil
}
