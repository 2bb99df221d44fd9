package catalog

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/datapond/lakecat/internal/catfile"
	"github.com/datapond/lakecat/internal/httpclient"
)

// state is the per-backend watcher contract. refresh produces a complete
// point-in-time snapshot; changed answers whether the backend has moved
// on from the last accepted observation, throttled by the node's TTL.
type state interface {
	refresh(ctx context.Context) (snapshot, error)
	changed(ctx context.Context) (bool, error)
}

// newState classifies the observable and builds the matching watcher.
// Collection watchers construct their member catalogs eagerly, so this
// can perform I/O.
func newState(ctx context.Context, name string, obs observable, ttl time.Duration) (state, error) {
	k, err := classify(obs)
	if err != nil {
		return nil, err
	}

	base := baseState{name: name, ttl: ttl}
	switch k {
	case kindCollection:
		return newCollectionState(ctx, base, obs.list)
	case kindRemote:
		return newRemoteState(base, obs.uri), nil
	case kindDirectory:
		return &directoryState{baseState: base, path: obs.uri}, nil
	case kindLocal:
		return &localState{baseState: base, path: obs.uri}, nil
	}
	return nil, &UnsupportedObservableError{Observable: obs.String()}
}

// baseState carries the bookkeeping shared by every watcher variant: the
// provisional name, the TTL, the last accepted modification value, and
// the time of the last accepted probe.
type baseState struct {
	name         string
	ttl          time.Duration
	lastModified time.Time
	lastProbe    time.Time
}

// probeDue reports whether the TTL window since the last accepted probe
// has elapsed. The first probe after construction is always due.
func (s *baseState) probeDue(now time.Time) bool {
	return s.lastProbe.IsZero() || now.Sub(s.lastProbe) > s.ttl
}

// acceptProbe is the shared staleness primitive. An accepted probe
// unconditionally records the observed modification value and the probe
// time, and reports whether the value moved forward. A probe inside the
// TTL window is suppressed and leaves stored state untouched.
func (s *baseState) acceptProbe(observed, now time.Time) bool {
	if !s.probeDue(now) {
		return false
	}
	newer := observed.After(s.lastModified)
	s.lastModified = observed
	s.lastProbe = now
	return newer
}

// changed is the default staleness behavior: probe against the wall
// clock. It carries no signal of real backend change, so after each TTL
// window the node is simply considered stale. Remote watchers inherit
// this rather than asking the server.
func (s *baseState) changed(_ context.Context) (bool, error) {
	now := time.Now()
	return s.acceptProbe(now, now), nil
}

// localState watches a single catalog file.
type localState struct {
	baseState
	path string
}

func (s *localState) refresh(_ context.Context) (snapshot, error) {
	cfg, err := catfile.Load(s.path)
	if err != nil {
		return snapshot{}, err
	}

	entries := make(map[string]Entry, len(cfg.Sources))
	for name, src := range cfg.Sources {
		entries[name] = Entry{
			Name:        src.Name,
			Driver:      src.Driver,
			Description: src.Description,
			Args:        src.Args,
			Metadata:    src.Metadata,
		}
	}
	plugins := make([]Plugin, 0, len(cfg.Plugins))
	for _, p := range cfg.Plugins {
		plugins = append(plugins, Plugin{Module: p.Module, Dir: p.Dir})
	}

	name := s.name
	if name == "" {
		name = cfg.Name
	}

	// Prime the staleness clock so the next accepted probe compares
	// against the file as it was when this snapshot was taken.
	if fi, err := os.Stat(s.path); err == nil {
		s.lastModified = fi.ModTime()
	}

	return snapshot{name: name, entries: entries, plugins: plugins}, nil
}

func (s *localState) changed(_ context.Context) (bool, error) {
	now := time.Now()
	if !s.probeDue(now) {
		return false, nil
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to stat catalog file %s: %w", s.path, err)
	}
	return s.acceptProbe(fi.ModTime(), now), nil
}

// directoryState watches a directory of catalog files, owning one child
// catalog per recognized file.
type directoryState struct {
	baseState
	path     string
	catalogs []*Catalog
}

func (s *directoryState) refresh(ctx context.Context) (snapshot, error) {
	dirents, err := os.ReadDir(s.path)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to list catalog directory %s: %w", s.path, err)
	}

	var catalogs []*Catalog
	for _, de := range dirents {
		if de.IsDir() || !hasConfigSuffix(de.Name()) {
			continue
		}
		child, err := New(ctx, filepath.Join(s.path, de.Name()))
		if err != nil {
			return snapshot{}, err
		}
		catalogs = append(catalogs, child)
	}

	children := make(map[string]*Catalog, len(catalogs))
	for _, child := range catalogs {
		children[child.Name()] = child
	}

	name := s.name
	if name == "" {
		name = filepath.Base(filepath.Clean(s.path))
	}

	// Commit only after every child built, so a failed refresh leaves the
	// previous child set intact.
	s.catalogs = catalogs
	if fi, err := os.Stat(s.path); err == nil {
		s.lastModified = fi.ModTime()
	}

	return snapshot{name: name, children: children}, nil
}

func (s *directoryState) changed(ctx context.Context) (bool, error) {
	modified := false
	now := time.Now()
	if s.probeDue(now) {
		fi, err := os.Stat(s.path)
		if err != nil {
			return false, fmt.Errorf("failed to stat catalog directory %s: %w", s.path, err)
		}
		modified = s.acceptProbe(fi.ModTime(), now)
	}

	// Every child is probed on every call, even when the directory itself
	// already reported a change.
	for _, child := range s.catalogs {
		childChanged, err := child.Changed(ctx)
		if err != nil {
			return false, err
		}
		modified = modified || childChanged
	}
	return modified, nil
}

// remoteState watches a catalog server over HTTP.
type remoteState struct {
	baseState
	baseURL   string
	infoURL   string
	sourceURL string
	client    httpclient.Client
}

func newRemoteState(base baseState, uri string) *remoteState {
	baseURL := strings.TrimSuffix(uri, "/")
	return &remoteState{
		baseState: base,
		baseURL:   baseURL,
		infoURL:   baseURL + "/v1/info",
		sourceURL: baseURL + "/v1/source",
		client:    httpclient.NewDefaultClient(0),
	}
}

// infoDocument is the wire shape of a catalog server's info response.
type infoDocument struct {
	Name    string           `cbor:"name"`
	Sources []map[string]any `cbor:"sources"`
}

// wireDecMode decodes untyped CBOR maps with string keys so source
// descriptors land as map[string]any.
var wireDecMode, _ = cbor.DecOptions{
	DefaultMapType: reflect.TypeOf(map[string]any(nil)),
}.DecMode()

func (s *remoteState) refresh(ctx context.Context) (snapshot, error) {
	name := s.name
	if name == "" {
		u, err := url.Parse(s.baseURL)
		if err != nil {
			return snapshot{}, fmt.Errorf("invalid catalog URL %s: %w", s.baseURL, err)
		}
		name = sanitizeHost(u.Host)
	}

	body, err := s.client.Get(ctx, s.infoURL)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to fetch catalog info: %w", err)
	}

	var info infoDocument
	if err := wireDecMode.Unmarshal(body, &info); err != nil {
		return snapshot{}, fmt.Errorf("failed to decode catalog info from %s: %w", s.infoURL, err)
	}
	if info.Sources == nil {
		return snapshot{}, fmt.Errorf("catalog info from %s has no sources", s.infoURL)
	}

	entries := make(map[string]Entry, len(info.Sources))
	for i, fields := range info.Sources {
		entry, err := entryFromWire(fields, s.sourceURL)
		if err != nil {
			return snapshot{}, fmt.Errorf("catalog info from %s: source at index %d: %w", s.infoURL, i, err)
		}
		entries[entry.Name] = entry
	}

	s.lastModified = time.Now()
	return snapshot{name: name, entries: entries}, nil
}

// sanitizeHost turns a host (and port) into an identifier-shaped name.
func sanitizeHost(host string) string {
	return strings.NewReplacer(".", "_", ":", "_").Replace(host)
}

// entryFromWire builds an entry from one per-source option map, binding
// it to the catalog's shared source endpoint. Reserved keys map onto the
// entry's typed fields; everything else passes through as args.
func entryFromWire(fields map[string]any, sourceURL string) (Entry, error) {
	name, _ := fields["name"].(string)
	if name == "" {
		return Entry{}, fmt.Errorf("descriptor has no name")
	}

	entry := Entry{Name: name, URL: sourceURL}
	args := make(map[string]any)
	for key, value := range fields {
		switch key {
		case "name":
		case "driver":
			entry.Driver, _ = value.(string)
		case "description":
			entry.Description, _ = value.(string)
		case "metadata":
			if m, ok := value.(map[string]any); ok {
				entry.Metadata = m
			}
		default:
			args[key] = value
		}
	}
	if len(args) > 0 {
		entry.Args = args
	}
	return entry, nil
}

// collectionState watches an explicit set of member catalogs, built
// eagerly at construction.
type collectionState struct {
	baseState
	catalogs []*Catalog
}

func newCollectionState(ctx context.Context, base baseState, uris []string) (*collectionState, error) {
	catalogs := make([]*Catalog, 0, len(uris))
	for _, uri := range uris {
		member, err := New(ctx, uri)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, member)
	}
	return &collectionState{baseState: base, catalogs: catalogs}, nil
}

func (s *collectionState) refresh(ctx context.Context) (snapshot, error) {
	// Members reload unconditionally; the children map is rebuilt from
	// their possibly renamed snapshots.
	for _, member := range s.catalogs {
		if err := member.Reload(ctx); err != nil {
			return snapshot{}, err
		}
	}
	children := make(map[string]*Catalog, len(s.catalogs))
	for _, member := range s.catalogs {
		children[member.Name()] = member
	}
	return snapshot{name: s.name, children: children}, nil
}

func (s *collectionState) changed(ctx context.Context) (bool, error) {
	// A collection has no observation of its own; it is stale exactly
	// when any member is. Vacuously false when empty.
	changed := false
	for _, member := range s.catalogs {
		memberChanged, err := member.Changed(ctx)
		if err != nil {
			return false, err
		}
		changed = changed || memberChanged
	}
	return changed, nil
}
