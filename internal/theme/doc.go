// Package theme decides whether pages render dark or light and remembers
// the reader's explicit choice.
//
// A Resolver reads the "dark" key from a Store and falls back to the
// environment's colour-scheme signal. A Binding holds the in-memory choice
// for one interactive session and tells its subscribers about every change.
//
// Integration example:
//
//	store := theme.NewCookieStore(w, r)
//	res := theme.NewResolver(store, theme.ClientHint(r))
//	b := theme.NewBinding(res)
//	defer b.PersistOnChange()()
//	dark := b.Mount()
//
// Static page generation has no store: use theme.Prerender(), which always
// resolves to light and never writes.
package theme
