package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestArchiver_Archive(t *testing.T) {
	t.Run("downloads and saves asset", func(t *testing.T) {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			_, _ = w.Write([]byte("mp4 payload"))
		}))
		defer origin.Close()

		storage := setupTestStorage(t)
		archiver := NewArchiver(storage)

		url, err := archiver.Archive(context.Background(), "vid-1.mp4", origin.URL+"/assets/vid-1.mp4")
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}

		expectedPath := filepath.Join(storage.Dir(), "vid-1.mp4")
		if url != "file://"+expectedPath {
			t.Errorf("url = %v, want %v", url, "file://"+expectedPath)
		}

		content, err := os.ReadFile(expectedPath)
		if err != nil {
			t.Fatalf("failed to read archived file: %v", err)
		}
		if string(content) != "mp4 payload" {
			t.Errorf("got %q, want %q", string(content), "mp4 payload")
		}
	})

	t.Run("fails on non-200 download", func(t *testing.T) {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer origin.Close()

		archiver := NewArchiver(setupTestStorage(t))

		_, err := archiver.Archive(context.Background(), "vid-1.mp4", origin.URL+"/assets/vid-1.mp4")
		if err == nil {
			t.Error("expected error for 404 download")
		}
	})

	t.Run("fails when storage save fails", func(t *testing.T) {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("data"))
		}))
		defer origin.Close()

		archiver := NewArchiver(failingStorage{})

		_, err := archiver.Archive(context.Background(), "vid-1.mp4", origin.URL)
		if err == nil {
			t.Error("expected error when storage fails")
		}
	})
}

type failingStorage struct{}

func (failingStorage) Save(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", errors.New("disk full")
}
