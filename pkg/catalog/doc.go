// Package catalog maintains a hierarchical catalog of named data-source
// descriptors sourced from independently observed backends.
//
// A catalog is built from a single observable (a catalog file, a directory
// of catalog files, or an HTTP(S) catalog server) or from a collection of
// such observables. Each node in the resulting tree owns one watcher state
// that knows how to refresh its snapshot and how to answer, cheaply, whether
// the backend has changed since the snapshot was taken.
//
// Architecture:
//   - state: per-backend watcher behind one contract {refresh, changed},
//     four implementations (directory, remote, local, collection) sharing a
//     single TTL-throttled staleness probe
//   - Catalog: a tree node caching its state's latest snapshot and gating
//     every read behind a staleness check
//   - traversal: breadth-first walk with node deduplication, yielding either
//     catalog nodes or leaf entries
//
// Staleness detection is pull-based: there is no background polling, and
// I/O happens only when a read finds the TTL window elapsed. A failed
// refresh propagates its error to the read that triggered it and leaves
// the previously cached snapshot fully intact.
package catalog
