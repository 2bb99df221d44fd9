package catalog

// Entry is an opaque named descriptor of a retrievable data source. The
// catalog stores and returns entries by name without interpreting them.
type Entry struct {
	// Name identifies the entry within its owning catalog.
	Name string

	// Driver names the plugin able to open this source, when known.
	Driver string

	// Description is free-form text carried through from the backend.
	Description string

	// URL is the fetch endpoint for entries produced by a remote catalog
	// server. Empty for entries parsed from local catalog files.
	URL string

	// Args holds the per-source options, passed through unmodified.
	Args map[string]any

	// Metadata holds auxiliary fields, passed through unmodified.
	Metadata map[string]any
}

// Plugin is an opaque extension descriptor carried alongside entries.
// Exactly one of Module or Dir is expected to be set.
type Plugin struct {
	Module string
	Dir    string
}

// snapshot is the result of one refresh: the node's name, its child
// catalogs, its entries, and its plugins. A refresh either succeeds and
// the snapshot is adopted wholesale, or fails and the previous snapshot
// stays in place. Children and entries are never both meaningfully
// populated on the same node.
type snapshot struct {
	name     string
	children map[string]*Catalog
	entries  map[string]Entry
	plugins  []Plugin
}
