package locale

import (
	"context"
	"testing"

	"admin-console/desktop/internal/storage"
)

func TestResolve_Order(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewMemoryKV()
	r := NewResolver(prefs, "en-US")

	if got := r.Resolve(ctx); got != "en-US" {
		t.Errorf("default = %q, want en-US", got)
	}

	_ = prefs.Set(ctx, PreferenceKey, "fr-FR")
	if got := r.Resolve(ctx); got != "fr-FR" {
		t.Errorf("with preference = %q, want fr-FR", got)
	}

	r.Active = func() string { return "vi" }
	if got := r.Resolve(ctx); got != "vi" {
		t.Errorf("with active locale = %q, want vi", got)
	}
}

func TestResolve_InvalidCandidatesSkipped(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewMemoryKV()
	_ = prefs.Set(ctx, PreferenceKey, "not a tag!!")
	r := NewResolver(prefs, "de-DE")
	r.Active = func() string { return "" }

	if got := r.Resolve(ctx); got != "de-DE" {
		t.Errorf("Resolve = %q, want de-DE", got)
	}
}

func TestNewResolver_InvalidDefault(t *testing.T) {
	r := NewResolver(nil, "%%%")
	if got := r.Resolve(context.Background()); got != "en-US" {
		t.Errorf("Resolve = %q, want en-US", got)
	}
}

func TestSetPreference(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewMemoryKV()
	r := NewResolver(prefs, "en-US")

	got, err := r.SetPreference(ctx, "pt-br")
	if err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if got != "pt-BR" {
		t.Errorf("canonical tag = %q, want pt-BR", got)
	}
	if v, _, _ := prefs.Get(ctx, PreferenceKey); v != "pt-BR" {
		t.Errorf("stored = %q, want pt-BR", v)
	}
	if _, err := r.SetPreference(ctx, "??"); err == nil {
		t.Error("SetPreference should reject invalid tags")
	}
}
