package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticProvider is a minimal Provider for registry tests.
type staticProvider struct {
	name      string
	available bool
}

func (s *staticProvider) Name() string    { return s.name }
func (s *staticProvider) Available() bool { return s.available }

func (s *staticProvider) Submit(_ context.Context, _ string, _ int) (Submission, error) {
	return Submission{Handle: "h"}, nil
}

func (s *staticProvider) CheckStatus(_ context.Context, _ string) (Status, error) {
	return Status{State: StateProcessing}, nil
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	p := &staticProvider{name: "luma", available: true}
	r.Register(p)

	got, err := r.Resolve("luma")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRegistry_Fallback(t *testing.T) {
	r := NewRegistry()
	r.Register(&staticProvider{name: "luma"})
	demo := &staticProvider{name: "demo", available: true}
	r.Register(demo)

	// No fallback configured yet
	assert.Nil(t, r.Fallback("luma"))

	require.NoError(t, r.SetFallback("luma", "demo"))
	assert.Equal(t, Provider(demo), r.Fallback("luma"))
}

func TestRegistry_SetFallback_UnknownNames(t *testing.T) {
	r := NewRegistry()
	r.Register(&staticProvider{name: "luma"})

	assert.ErrorIs(t, r.SetFallback("nope", "luma"), ErrUnknownProvider)
	assert.ErrorIs(t, r.SetFallback("luma", "nope"), ErrUnknownProvider)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(&staticProvider{name: "luma"})
	r.Register(&staticProvider{name: "demo"})
	r.Register(&staticProvider{name: "heygen"})

	assert.Equal(t, []string{"demo", "heygen", "luma"}, r.Names())
}

func TestRegistry_Health(t *testing.T) {
	r := NewRegistry()
	r.Register(&staticProvider{name: "luma", available: false})
	r.Register(&staticProvider{name: "demo", available: true})

	health := r.Health()
	assert.Equal(t, map[string]bool{"luma": false, "demo": true}, health)
}

func TestDemo_SubmitReturnsAssetImmediately(t *testing.T) {
	d := NewDemo()

	assert.Equal(t, "demo", d.Name())
	assert.True(t, d.Available())

	sub, err := d.Submit(context.Background(), "any prompt at all", 5)
	require.NoError(t, err)
	assert.Empty(t, sub.Handle)
	require.NotNil(t, sub.Asset)
	assert.NotEmpty(t, sub.Asset.VideoURL)
	assert.NotEmpty(t, sub.Asset.ThumbnailURL)
}
