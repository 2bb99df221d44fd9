// Package v1 provides the HTTP handlers that expose a catalog over the
// catalog server wire protocol.
package v1

import (
	"errors"
	"net/http"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"

	"github.com/datapond/lakecat/internal/logger"
	"github.com/datapond/lakecat/pkg/catalog"
)

// ContentType is the media type of every response body.
const ContentType = "application/cbor"

// InfoResponse is the body of GET /v1/info: the serving catalog's name
// and one option map per entry reachable in its subtree.
type InfoResponse struct {
	Name    string           `cbor:"name"`
	Sources []map[string]any `cbor:"sources"`
}

// ErrorResponse is the standardized error body.
type ErrorResponse struct {
	Error string `cbor:"error"`
}

// Routes holds the handlers serving one catalog.
type Routes struct {
	cat *catalog.Catalog
}

// NewRoutes creates a Routes instance serving the given catalog.
func NewRoutes(cat *catalog.Catalog) *Routes {
	return &Routes{cat: cat}
}

// Router creates the /v1 router for the given catalog.
func Router(cat *catalog.Catalog) http.Handler {
	routes := NewRoutes(cat)

	r := chi.NewRouter()
	r.Get("/info", routes.getInfo)
	r.Get("/source", routes.getSource)
	return r
}

// getInfo handles GET /v1/info. The response lists every entry in the
// catalog subtree as a per-source option map, in the same shape a remote
// catalog consumes.
func (rr *Routes) getInfo(w http.ResponseWriter, r *http.Request) {
	entries, err := rr.cat.Entries(r.Context())
	if err != nil {
		logger.Errorf("Failed to list catalog entries: %v", err)
		rr.writeError(w, "failed to read catalog", http.StatusInternalServerError)
		return
	}

	sources := make([]map[string]any, 0)
	for _, entry := range entries {
		sources = append(sources, sourceDescriptor(entry))
	}

	rr.writeCBOR(w, InfoResponse{
		Name:    rr.cat.Name(),
		Sources: sources,
	})
}

// getSource handles GET /v1/source?name=. It resolves the named entry
// anywhere in the subtree and returns its descriptor.
func (rr *Routes) getSource(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		rr.writeError(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	entries, err := rr.cat.Entries(r.Context())
	if err != nil {
		logger.Errorf("Failed to list catalog entries: %v", err)
		rr.writeError(w, "failed to read catalog", http.StatusInternalServerError)
		return
	}

	for _, entry := range entries {
		if entry.Name == name {
			rr.writeCBOR(w, sourceDescriptor(entry))
			return
		}
	}

	notFound := &catalog.NotFoundError{Kind: "entry", Name: name}
	rr.writeError(w, notFound.Error(), http.StatusNotFound)
}

// sourceDescriptor flattens an entry into one wire option map. Args keys
// never clobber the reserved descriptor fields.
func sourceDescriptor(entry catalog.Entry) map[string]any {
	m := map[string]any{"name": entry.Name}
	if entry.Driver != "" {
		m["driver"] = entry.Driver
	}
	if entry.Description != "" {
		m["description"] = entry.Description
	}
	if entry.Metadata != nil {
		m["metadata"] = entry.Metadata
	}
	for key, value := range entry.Args {
		if _, reserved := m[key]; !reserved {
			m[key] = value
		}
	}
	return m
}

func (rr *Routes) writeCBOR(w http.ResponseWriter, v any) {
	body, err := cbor.Marshal(v)
	if err != nil {
		logger.Errorf("Failed to encode response: %v", err)
		rr.writeError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	if _, err := w.Write(body); err != nil {
		logger.Errorf("Failed to write response: %v", err)
	}
}

func (rr *Routes) writeError(w http.ResponseWriter, message string, statusCode int) {
	body, err := cbor.Marshal(ErrorResponse{Error: message})
	if err != nil {
		// Marshalling a flat string cannot realistically fail; fall back
		// to a bare status.
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		logger.Errorf("Failed to write error response: %v", err)
	}
}
