package theme_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/rhomel/duskblog/internal/theme"
)

func unsupported() (bool, bool) { return false, false }

func TestResolve(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name   string
		stored *string
		scheme theme.ColorSchemeFunc
		want   bool
	}{
		{name: "nothing stored and no signal", scheme: unsupported, want: false},
		{name: "nothing stored and nil signal", scheme: nil, want: false},
		{name: "nothing stored and dark signal", scheme: theme.Fixed(true), want: true},
		{name: "nothing stored and light signal", scheme: theme.Fixed(false), want: false},
		{name: "stored true beats light signal", stored: ptr("true"), scheme: theme.Fixed(false), want: true},
		{name: "stored true without signal", stored: ptr("true"), scheme: unsupported, want: true},
		{name: "stored false beats dark signal", stored: ptr("false"), scheme: theme.Fixed(true), want: false},
		{name: "malformed falls through to dark signal", stored: ptr("yes please"), scheme: theme.Fixed(true), want: true},
		{name: "malformed without signal", stored: ptr("{"), scheme: unsupported, want: false},
		{name: "null falls through to dark signal", stored: ptr("null"), scheme: theme.Fixed(true), want: true},
		{name: "json string is not a boolean", stored: ptr(`"true"`), scheme: theme.Fixed(false), want: false},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			store := theme.NewMemoryStore()
			if tt.stored != nil {
				c.Assert(store.Set(theme.Key, *tt.stored), qt.IsNil)
			}
			got := theme.NewResolver(store, tt.scheme).Resolve()
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestResolve_NoStore(t *testing.T) {
	c := qt.New(t)

	c.Assert(theme.Prerender().Resolve(), qt.IsFalse)
	// Even a dark signal is ignored when there is nowhere to read from.
	c.Assert(theme.NewResolver(nil, theme.Fixed(true)).Resolve(), qt.IsFalse)
}

func TestPersist_RoundTrip(t *testing.T) {
	c := qt.New(t)

	store := theme.NewMemoryStore()
	r := theme.NewResolver(store, theme.Fixed(false))

	c.Assert(r.Persist(true), qt.IsNil)
	c.Assert(r.Resolve(), qt.IsTrue)
	v, ok := store.Get(theme.Key)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "true")

	c.Assert(r.Persist(false), qt.IsNil)
	c.Assert(r.Resolve(), qt.IsFalse)
	v, _ = store.Get(theme.Key)
	c.Assert(v, qt.Equals, "false")
}

func TestPersist_NoStore(t *testing.T) {
	c := qt.New(t)

	err := theme.Prerender().Persist(true)
	c.Assert(errors.Is(err, theme.ErrNoStore), qt.IsTrue)
}

type failingStore struct{ theme.MemoryStore }

func (*failingStore) Set(string, string) error { return errors.New("disk full") }

func TestPersist_StoreError(t *testing.T) {
	c := qt.New(t)

	err := theme.NewResolver(&failingStore{}, nil).Persist(true)
	c.Assert(err, qt.ErrorMatches, "theme: persist: disk full")
}

func TestToggle(t *testing.T) {
	c := qt.New(t)

	c.Assert(theme.Toggle(true), qt.IsFalse)
	c.Assert(theme.Toggle(false), qt.IsTrue)
	for _, x := range []bool{true, false} {
		c.Assert(theme.Toggle(theme.Toggle(x)), qt.Equals, x)
	}
}

func TestEnvScheme(t *testing.T) {
	c := qt.New(t)

	const name = "DUSKBLOG_TEST_PREFERS_DARK"
	tests := []struct {
		value    string
		wantDark bool
		wantOK   bool
	}{
		{value: "", wantDark: false, wantOK: false},
		{value: "true", wantDark: true, wantOK: true},
		{value: "0", wantDark: false, wantOK: true},
		{value: "maybe", wantDark: false, wantOK: false},
	}
	for _, tt := range tests {
		c.Run(tt.value, func(c *qt.C) {
			c.Setenv(name, tt.value)
			dark, ok := theme.EnvScheme(name)()
			c.Assert(dark, qt.Equals, tt.wantDark)
			c.Assert(ok, qt.Equals, tt.wantOK)
		})
	}
}

func TestFileStore(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "nested", "preferences.json")

	s, err := theme.OpenFileStore(path)
	c.Assert(err, qt.IsNil)
	_, ok := s.Get(theme.Key)
	c.Assert(ok, qt.IsFalse)

	c.Assert(theme.NewResolver(s, nil).Persist(true), qt.IsNil)

	reopened, err := theme.OpenFileStore(path)
	c.Assert(err, qt.IsNil)
	c.Assert(theme.NewResolver(reopened, theme.Fixed(false)).Resolve(), qt.IsTrue)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `"dark": "true"`)
}

func TestFileStore_Corrupt(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "preferences.json")
	c.Assert(os.WriteFile(path, []byte("not json"), 0o600), qt.IsNil)

	_, err := theme.OpenFileStore(path)
	c.Assert(err, qt.IsNotNil)
}

func ptr(s string) *string { return &s }
