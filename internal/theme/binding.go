package theme

// Binding holds the in-memory preference of one interactive session and
// notifies subscribers whenever it changes.
type Binding struct {
	resolver *Resolver
	dark     bool
	mounted  bool

	nextID    int
	observers map[int]func(dark bool)
	order     []int
}

// NewBinding returns an unmounted Binding over r.
func NewBinding(r *Resolver) *Binding {
	return &Binding{resolver: r, observers: make(map[int]func(bool))}
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (b *Binding) Subscribe(fn func(dark bool)) func() {
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.order = append(b.order, id)
	return func() {
		delete(b.observers, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// PersistOnChange subscribes the resolver's Persist. Write failures are
// logged and never interrupt rendering.
func (b *Binding) PersistOnChange() func() {
	return b.Subscribe(func(dark bool) {
		if err := b.resolver.Persist(dark); err != nil {
			b.resolver.logger.Warn("theme: persisting preference failed", "dark", dark, "err", err)
		}
	})
}

// Mount resolves the initial preference and notifies subscribers with it,
// even when it equals the zero value. Only the first call resolves.
func (b *Binding) Mount() bool {
	if b.mounted {
		return b.dark
	}
	b.mounted = true
	b.dark = b.resolver.Resolve()
	b.resolver.logger.Debug("theme: mounted", "dark", b.dark)
	b.notify()
	return b.dark
}

// Mounted reports whether Mount ran.
func (b *Binding) Mounted() bool { return b.mounted }

// Dark returns the current in-memory preference.
func (b *Binding) Dark() bool { return b.dark }

// Set changes the preference, notifying subscribers when it differs. An
// unmounted Binding is mounted first so the change is not overwritten later.
func (b *Binding) Set(dark bool) {
	b.Mount()
	if dark == b.dark {
		return
	}
	b.dark = dark
	b.notify()
}

// Toggle flips the preference and returns the new value.
func (b *Binding) Toggle() bool {
	b.Mount()
	b.Set(Toggle(b.dark))
	return b.dark
}

func (b *Binding) notify() {
	for _, id := range append([]int(nil), b.order...) {
		if fn, ok := b.observers[id]; ok {
			fn(b.dark)
		}
	}
}
