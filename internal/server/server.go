// Package server serves a generated site for local preview.
//
// HTML pages are themed per request: the reader's cookie jar is the
// preference store and the Sec-CH-Prefers-Color-Scheme client hint is the
// colour-scheme signal.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rhomel/duskblog/internal/render"
	"github.com/rhomel/duskblog/internal/theme"
)

const reloadScript = `<script>
var es = new EventSource('/_sse');
es.onmessage = function(e) { if (e.data === 'reload') window.location.reload(); };
</script>`

// Options configures a Server.
type Options struct {
	// LiveReload injects the SSE reload script into HTML pages.
	LiveReload bool
	// ToggleLimit is the number of theme toggles allowed per IP and minute.
	ToggleLimit int
	Logger      *slog.Logger
}

// Server serves the files of one output directory.
type Server struct {
	root       fs.FS
	files      http.Handler
	liveReload bool
	limiter    *limiter
	logger     *slog.Logger

	clientsMu sync.Mutex
	clients   map[chan string]struct{}
}

// New returns a Server for dir.
func New(dir string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		root:       os.DirFS(dir),
		files:      http.FileServer(http.Dir(dir)),
		liveReload: opts.LiveReload,
		limiter:    newLimiter(opts.ToggleLimit, 0),
		logger:     logger,
		clients:    make(map[chan string]struct{}),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_sse", s.handleSSE)
	mux.HandleFunc("GET /_theme", s.handleTheme)
	mux.HandleFunc("POST "+render.ToggleAction, s.limiter.middleware(s.handleToggle))
	mux.HandleFunc("/", s.handleStatic)
	return mux
}

// Broadcast sends msg to every connected live reload client. Slow clients
// miss the message.
func (s *Server) Broadcast(msg string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "serving", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}

// session mounts the theme binding of one request. The initial resolution
// is persisted immediately so the reader has an explicit record.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *theme.Binding {
	res := theme.NewResolver(theme.NewCookieStore(w, r), theme.ClientHint(r)).WithLogger(s.logger)
	b := theme.NewBinding(res)
	b.PersistOnChange()
	b.Mount()
	h := w.Header()
	h.Set("Accept-CH", theme.ClientHintHeader)
	h.Add("Vary", theme.ClientHintHeader)
	h.Add("Vary", "Cookie")
	return b
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name, ok := s.htmlName(r.URL.Path)
	if !ok {
		s.files.ServeHTTP(w, r)
		return
	}
	status := http.StatusOK
	data, err := fs.ReadFile(s.root, name)
	if err != nil {
		status = http.StatusNotFound
		if data, err = fs.ReadFile(s.root, "404.html"); err != nil {
			http.NotFound(w, r)
			return
		}
	}
	b := s.session(w, r)
	out := render.ForSession(data, b.Dark())
	if s.liveReload {
		out = bytes.Replace(out, []byte("</head>"), []byte(reloadScript+"</head>"), 1)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// htmlName maps a URL path to the HTML file that serves it. Paths to other
// assets report false.
func (s *Server) htmlName(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	name := strings.TrimPrefix(clean, "/")
	switch {
	case name == "":
		return "index.html", true
	case strings.HasSuffix(name, ".html"):
		return name, true
	case path.Ext(name) == "":
		if fi, err := fs.Stat(s.root, name); err == nil && !fi.IsDir() {
			return "", false
		}
		return path.Join(name, "index.html"), true
	}
	return "", false
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan string, 1)
	s.clientsMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, ch)
		s.clientsMu.Unlock()
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	b := s.session(w, r)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"dark": b.Dark()})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	b := s.session(w, r)
	dark := b.Toggle()
	s.logger.DebugContext(r.Context(), "theme toggled", "dark", dark)
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath picks a local path to send the reader back to after a toggle.
func returnPath(r *http.Request) string {
	if p := r.FormValue("return"); isLocalPath(p) {
		return p
	}
	return "/"
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}
