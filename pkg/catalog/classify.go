package catalog

import (
	"os"
	"strings"
	"time"
)

// kind identifies which watcher variant an observable resolves to.
type kind int

const (
	kindCollection kind = iota
	kindRemote
	kindDirectory
	kindLocal
)

// configSuffixes are the recognized catalog file extensions.
var configSuffixes = []string{".yml", ".yaml"}

func hasConfigSuffix(name string) bool {
	for _, suffix := range configSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// observable is the external resource a watcher monitors: a single URI or
// a list of URIs.
type observable struct {
	uri  string
	list []string
}

func (o observable) String() string {
	if o.list != nil {
		return strings.Join(o.list, ",")
	}
	return o.uri
}

// classify maps an observable to the watcher variant that handles it.
// First match wins: a list is a collection, an http(s) URL is remote, an
// existing directory is a directory, a path with a recognized catalog
// suffix is local. Anything else is unsupported.
func classify(obs observable) (kind, error) {
	if obs.list != nil {
		return kindCollection, nil
	}
	uri := obs.uri
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return kindRemote, nil
	}
	if fi, err := os.Stat(uri); err == nil && fi.IsDir() {
		return kindDirectory, nil
	}
	if hasConfigSuffix(uri) {
		return kindLocal, nil
	}
	return 0, &UnsupportedObservableError{Observable: uri}
}

// flatten normalizes a URI list: empty elements are dropped and the
// result is an independent copy.
func flatten(uris []string) []string {
	out := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri == "" {
			continue
		}
		out = append(out, uri)
	}
	return out
}

// clampTTL floors a staleness TTL at zero. A zero TTL means every probe
// outside the current instant is accepted.
func clampTTL(ttl time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}
	return ttl
}
