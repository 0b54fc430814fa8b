package provider

import (
	"context"
	"fmt"
)

// Sample assets served by the demo provider.
const (
	demoVideoURL     = "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"
	demoThumbnailURL = "https://storage.googleapis.com/gtv-videos-bucket/sample/images/BigBuckBunny.jpg"
)

// Demo is a local stand-in provider that synthesizes a placeholder asset
// immediately, with no network call and no credential. It short-circuits the
// polling path the same way a synchronous provider does.
type Demo struct{}

// NewDemo creates the demo provider.
func NewDemo() *Demo {
	return &Demo{}
}

// Name returns "demo".
func (d *Demo) Name() string { return "demo" }

// Available always returns true; the demo provider needs no credential.
func (d *Demo) Available() bool { return true }

// Submit returns a placeholder asset immediately.
func (d *Demo) Submit(_ context.Context, _ string, _ int) (Submission, error) {
	return Submission{
		Asset: &Asset{
			VideoURL:     demoVideoURL,
			ThumbnailURL: demoThumbnailURL,
		},
	}, nil
}

// CheckStatus reports completion for any handle. The demo provider completes
// synchronously, so this is never reached by the orchestrator.
func (d *Demo) CheckStatus(_ context.Context, handle string) (Status, error) {
	if handle == "" {
		return Status{}, fmt.Errorf("demo: job handle is required")
	}
	return Status{
		State: StateCompleted,
		Asset: &Asset{
			VideoURL:     demoVideoURL,
			ThumbnailURL: demoThumbnailURL,
		},
	}, nil
}

// Compile-time check that Demo implements Provider.
var _ Provider = (*Demo)(nil)
