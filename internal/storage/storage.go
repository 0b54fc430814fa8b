// Package storage provides archive storage for completed videos. Provider
// asset URLs are often short lived, so a completed video can optionally be
// copied to local disk or S3 and served from there instead.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Storage defines the interface for persisting archived video data.
type Storage interface {
	// Save writes data under key and returns the location it can be
	// retrieved from.
	Save(ctx context.Context, key string, data io.Reader) (url string, err error)
}

// Archiver downloads a provider-hosted asset and writes it to a Storage
// backend.
type Archiver struct {
	storage    Storage
	httpClient *http.Client
}

// NewArchiver creates an Archiver over the given storage backend.
func NewArchiver(s Storage) *Archiver {
	return &Archiver{
		storage:    s,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Archive fetches the asset at srcURL and saves it under key, returning the
// archived location.
func (a *Archiver) Archive(ctx context.Context, key, srcURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download asset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	url, err := a.storage.Save(ctx, key, resp.Body)
	if err != nil {
		return "", fmt.Errorf("save asset: %w", err)
	}

	return url, nil
}
