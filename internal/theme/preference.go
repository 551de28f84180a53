package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Key is the store key holding the reader's explicit choice.
const Key = "dark"

// ErrNoStore is returned by Persist when the resolver has no backing store.
var ErrNoStore = errors.New("theme: no preference store")

// Store is a synchronous string key-value store scoped to one origin.
//
// Get reports whether the key is present; absence is not the same as a
// stored "false".
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// ColorSchemeFunc reports whether the environment prefers a dark colour
// scheme. ok is false when the environment cannot answer.
type ColorSchemeFunc func() (dark, ok bool)

// Resolver resolves and persists the theme preference.
type Resolver struct {
	store  Store
	scheme ColorSchemeFunc
	logger *slog.Logger
}

// NewResolver returns a Resolver reading from store and falling back to
// scheme. Either may be nil.
func NewResolver(store Store, scheme ColorSchemeFunc) *Resolver {
	return &Resolver{store: store, scheme: scheme, logger: slog.Default()}
}

// Prerender returns a Resolver for contexts without a store, such as static
// page generation.
func Prerender() *Resolver {
	return NewResolver(nil, nil)
}

// WithLogger sets the logger used for malformed stored values.
func (r *Resolver) WithLogger(l *slog.Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// Resolve returns true when pages should render dark.
//
// An explicit stored value wins. Without one the colour-scheme signal is
// used, and light is the answer when that is unavailable too. Without a
// store at all Resolve returns false.
func (r *Resolver) Resolve() bool {
	if r.store == nil {
		return false
	}
	if raw, ok := r.store.Get(Key); ok {
		var dark *bool
		if err := json.Unmarshal([]byte(raw), &dark); err == nil && dark != nil {
			return *dark
		}
		r.logger.Debug("theme: ignoring malformed stored value", "key", Key, "value", raw)
	}
	if r.scheme == nil {
		return false
	}
	dark, ok := r.scheme()
	return ok && dark
}

// Persist records dark as the reader's explicit choice.
func (r *Resolver) Persist(dark bool) error {
	if r.store == nil {
		return ErrNoStore
	}
	b, err := json.Marshal(dark)
	if err != nil {
		return err
	}
	if err := r.store.Set(Key, string(b)); err != nil {
		return fmt.Errorf("theme: persist: %w", err)
	}
	return nil
}

// Toggle returns the opposite preference.
func Toggle(dark bool) bool {
	return !dark
}

// EnvScheme reads the colour-scheme signal from a boolean environment
// variable. An unset or unparsable variable means the signal is unsupported.
func EnvScheme(name string) ColorSchemeFunc {
	return func() (bool, bool) {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			return false, false
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, false
		}
		return b, true
	}
}

// Fixed returns a signal that always answers dark.
func Fixed(dark bool) ColorSchemeFunc {
	return func() (bool, bool) { return dark, true }
}
