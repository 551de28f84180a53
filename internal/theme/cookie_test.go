package theme_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/rhomel/duskblog/internal/theme"
)

func TestCookieStore(t *testing.T) {
	c := qt.New(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: theme.Key, Value: "true"})
	w := httptest.NewRecorder()

	s := theme.NewCookieStore(w, r)
	v, ok := s.Get(theme.Key)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "true")

	c.Assert(s.Set(theme.Key, "false"), qt.IsNil)
	c.Assert(s.Set(theme.Key, "true"), qt.IsNil)
	c.Assert(s.Set("other", "1"), qt.IsNil)

	cookies := w.Result().Cookies()
	c.Assert(cookies, qt.HasLen, 2)
	c.Assert(cookies[0].Name, qt.Equals, theme.Key)
	c.Assert(cookies[0].Value, qt.Equals, "true")
	c.Assert(cookies[0].Path, qt.Equals, "/")
	c.Assert(cookies[1].Name, qt.Equals, "other")
}

func TestCookieStore_Absent(t *testing.T) {
	c := qt.New(t)

	s := theme.NewCookieStore(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := s.Get(theme.Key)
	c.Assert(ok, qt.IsFalse)
}

func TestClientHint(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		header   string
		wantDark bool
		wantOK   bool
	}{
		{header: "", wantOK: false},
		{header: `"dark"`, wantDark: true, wantOK: true},
		{header: "dark", wantDark: true, wantOK: true},
		{header: `"light"`, wantDark: false, wantOK: true},
		{header: "sepia", wantOK: false},
	}
	for _, tt := range tests {
		c.Run(tt.header, func(c *qt.C) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(theme.ClientHintHeader, tt.header)
			}
			dark, ok := theme.ClientHint(r)()
			c.Assert(dark, qt.Equals, tt.wantDark)
			c.Assert(ok, qt.Equals, tt.wantOK)
		})
	}
}
