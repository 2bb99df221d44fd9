package catalog

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultTTL is the staleness TTL applied when none is supplied.
const DefaultTTL = time.Second

// Option configures a catalog at construction.
type Option func(*options)

type options struct {
	name string
	ttl  time.Duration
}

// WithName overrides the catalog's discovered name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTTL sets the minimum interval between accepted staleness probes
// for this node. Children and collection members carry their own TTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// Catalog is a tree node owning one watcher state and caching its latest
// snapshot. The watcher variant is fixed for the node's lifetime; the
// snapshot is replaced wholesale on each successful reload.
type Catalog struct {
	mu   sync.Mutex
	st   state
	snap snapshot
}

// New builds a catalog for a single observable: a catalog file path, a
// directory path, or an http(s) catalog server URL. The observable is
// classified once and the catalog performs an eager initial refresh.
func New(ctx context.Context, uri string, opts ...Option) (*Catalog, error) {
	return newCatalog(ctx, observable{uri: uri}, opts...)
}

// NewCollection builds a catalog over a list of observables. A list that
// flattens to a single observable yields that observable's catalog
// directly; anything longer becomes a collection node whose members are
// independently classified and refreshed.
func NewCollection(ctx context.Context, uris []string, opts ...Option) (*Catalog, error) {
	flat := flatten(uris)
	if len(flat) == 1 {
		return newCatalog(ctx, observable{uri: flat[0]}, opts...)
	}
	return newCatalog(ctx, observable{list: flat}, opts...)
}

func newCatalog(ctx context.Context, obs observable, opts ...Option) (*Catalog, error) {
	o := options{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := newState(ctx, o.name, obs, clampTTL(o.ttl))
	if err != nil {
		return nil, err
	}

	c := &Catalog{st: st}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the catalog's current name. Collections have no identity
// and report an empty name unless one was supplied at construction.
func (c *Catalog) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.name
}

// Reload fetches a fresh snapshot from the watcher and adopts it
// wholesale. On failure the prior snapshot is left completely intact.
func (c *Catalog) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadLocked(ctx)
}

func (c *Catalog) reloadLocked(ctx context.Context) error {
	snap, err := c.st.refresh(ctx)
	if err != nil {
		return err
	}
	c.snap = snap
	return nil
}

// Changed reports whether the observed backend has changed since the
// last accepted probe. Within the TTL window the answer is false without
// any I/O; directory and collection nodes additionally probe their
// children on every call.
func (c *Catalog) Changed(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.changed(ctx)
}

// ensureFresh is the read guard: every public read goes through it
// before producing output.
func (c *Catalog) ensureFresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed, err := c.st.changed(ctx)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return c.reloadLocked(ctx)
}

// GetEntry returns the named entry from this node's current entries.
func (c *Catalog) GetEntry(ctx context.Context, name string) (Entry, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return Entry{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.snap.entries[name]
	if !ok {
		return Entry{}, &NotFoundError{Kind: "entry", Name: name}
	}
	return entry, nil
}

// GetCatalog returns the named catalog node from anywhere in the subtree.
func (c *Catalog) GetCatalog(ctx context.Context, name string) (*Catalog, error) {
	nodes, err := c.Catalogs(ctx)
	if err != nil {
		return nil, err
	}
	for node := range nodes {
		if node.Name() == name {
			return node, nil
		}
	}
	return nil, &NotFoundError{Kind: "catalog", Name: name}
}

// Plugins returns the node's current plugin descriptors.
func (c *Catalog) Plugins(ctx context.Context) ([]Plugin, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.snap.plugins), nil
}

// List resolves the node's general listing surface: the catalog names of
// the subtree when the node has children, its entry names otherwise.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	hasChildren := len(c.snap.children) > 0
	c.mu.Unlock()

	if hasChildren {
		return c.CatalogNames(ctx)
	}
	return c.EntryNames(ctx)
}

// childList returns the current children ordered by name.
func (c *Catalog) childList() []*Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.snap.children))
	for name := range c.snap.children {
		names = append(names, name)
	}
	slices.Sort(names)
	children := make([]*Catalog, 0, len(names))
	for _, name := range names {
		children = append(children, c.snap.children[name])
	}
	return children
}

// entryList returns the current entries ordered by name.
func (c *Catalog) entryList() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.snap.entries))
	for name := range c.snap.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, c.snap.entries[name])
	}
	return entries
}
