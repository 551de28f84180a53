package theme

import (
	"net/http"
	"strings"
	"time"
)

// ClientHintHeader carries the browser's prefers-color-scheme media feature.
const ClientHintHeader = "Sec-CH-Prefers-Color-Scheme"

const cookieMaxAge = 400 * 24 * time.Hour

// CookieStore is a Store over the cookies of a single HTTP exchange: reads
// come from the request, writes become Set-Cookie headers on the response
// and are visible to later reads.
type CookieStore struct {
	w      http.ResponseWriter
	values map[string]string
}

// NewCookieStore snapshots the cookies of r.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	s := &CookieStore{w: w, values: make(map[string]string)}
	for _, c := range r.Cookies() {
		s.values[c.Name] = c.Value
	}
	return s
}

func (s *CookieStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *CookieStore) Set(key, value string) error {
	s.values[key] = value
	h := s.w.Header()
	// Keep one Set-Cookie per key when a session writes more than once.
	var kept []string
	for _, line := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(line, key+"=") {
			kept = append(kept, line)
		}
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClientHint reads the colour-scheme signal from the request's client hint.
// Browsers that do not send the header leave the signal unsupported.
func ClientHint(r *http.Request) ColorSchemeFunc {
	return func() (bool, bool) {
		v := strings.Trim(strings.TrimSpace(r.Header.Get(ClientHintHeader)), `"`)
		switch strings.ToLower(v) {
		case "dark":
			return true, true
		case "light":
			return false, true
		}
		return false, false
	}
}
