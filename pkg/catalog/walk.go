package catalog

import (
	"context"
	"iter"
	"slices"
)

// Catalogs returns a breadth-first traversal of the subtree rooted at
// this node, yielding each reachable catalog exactly once. The root is
// revalidated when the traversal is requested; calling Catalogs again
// revalidates and rebuilds the walk from scratch.
func (c *Catalog) Catalogs(ctx context.Context) (iter.Seq[*Catalog], error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return walk(c), nil
}

// Entries returns a breadth-first traversal over every entry in the
// subtree, paired with its owning catalog. Catalog nodes themselves are
// traversed but never yielded.
func (c *Catalog) Entries(ctx context.Context) (iter.Seq2[*Catalog, Entry], error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return func(yield func(*Catalog, Entry) bool) {
		for node := range walk(c) {
			for _, entry := range node.entryList() {
				if !yield(node, entry) {
					return
				}
			}
		}
	}, nil
}

// walk is the shared breadth-first sequence over catalog nodes. A
// visited set keyed on node identity keeps a catalog reachable through
// multiple parents from being yielded twice.
func walk(root *Catalog) iter.Seq[*Catalog] {
	return func(yield func(*Catalog) bool) {
		visited := make(map[*Catalog]struct{})
		queue := []*Catalog{root}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			if _, seen := visited[node]; seen {
				continue
			}
			visited[node] = struct{}{}
			for _, child := range node.childList() {
				if _, seen := visited[child]; !seen {
					queue = append(queue, child)
				}
			}
			if !yield(node) {
				return
			}
		}
	}
}

// CatalogNames returns the distinct, non-empty names among all nodes in
// the subtree.
func (c *Catalog) CatalogNames(ctx context.Context) ([]string, error) {
	nodes, err := c.Catalogs(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for node := range nodes {
		name := node.Name()
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// EntryNames returns the distinct entry names across the whole subtree.
// Names deduplicate globally: same-named entries under different
// catalogs collapse to one listed name. Entries keeps the distinction
// when the owning catalog matters.
func (c *Catalog) EntryNames(ctx context.Context) ([]string, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for _, entry := range entries {
		if _, dup := seen[entry.Name]; dup {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	slices.Sort(names)
	return names, nil
}
