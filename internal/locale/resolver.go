// Package locale resolves the language tag sent with every API request.
package locale

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"admin-console/desktop/internal/storage"
)

// PreferenceKey is where the long-lived locale preference is stored.
const PreferenceKey = "prefs.locale"

// Resolver picks the request locale: active UI locale, then stored preference, then Default.
type Resolver struct {
	// Active returns the locale the UI currently displays; may be nil or return "".
	Active func() string
	// Prefs holds the persisted preference; may be nil.
	Prefs storage.KV
	// Default is used when nothing else yields a valid tag.
	Default language.Tag
}

// NewResolver returns a Resolver with def parsed as the fallback tag (en-US when def is invalid).
func NewResolver(prefs storage.KV, def string) *Resolver {
	tag, err := language.Parse(strings.TrimSpace(def))
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Resolver{Prefs: prefs, Default: tag}
}

// Resolve returns the BCP 47 string of the first valid candidate. It never fails.
func (r *Resolver) Resolve(ctx context.Context) string {
	if r.Active != nil {
		if tag, ok := parse(r.Active()); ok {
			return tag.String()
		}
	}
	if r.Prefs != nil {
		v, ok, err := r.Prefs.Get(ctx, PreferenceKey)
		if err != nil {
			slog.Debug("locale: read preference failed", "err", err)
		} else if ok {
			if tag, ok := parse(v); ok {
				return tag.String()
			}
		}
	}
	if r.Default == language.Und {
		return language.AmericanEnglish.String()
	}
	return r.Default.String()
}

// SetPreference validates and stores tag as the locale preference.
func (r *Resolver) SetPreference(ctx context.Context, tag string) (string, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", err
	}
	if r.Prefs == nil {
		return t.String(), nil
	}
	if err := r.Prefs.Set(ctx, PreferenceKey, t.String()); err != nil {
		return "", err
	}
	return t.String(), nil
}

func parse(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}
