package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formschema/pkg/model"
)

// Registry holds loaded schemas by id. Schemas are registered explicitly;
// nothing is discovered at init time.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]Document)}
}

// Register adds doc. Ids must be unique.
func (r *Registry) Register(doc Document) error {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return fmt.Errorf("loader: document from %s has an empty id", doc.Source)
	}
	if doc.Schema == nil {
		return fmt.Errorf("loader: document %q has no schema", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.docs[id]; ok {
		return fmt.Errorf("loader: duplicate form %q (files %s and %s)", id, existing.Source, doc.Source)
	}
	doc.ID = id
	r.docs[id] = doc
	return nil
}

// Schema returns the schema registered under id.
func (r *Registry) Schema(id string) (*model.Schema, bool) {
	doc, ok := r.Document(id)
	return doc.Schema, ok
}

// Document returns the document registered under id.
func (r *Registry) Document(id string) (Document, bool) {
	if r == nil {
		return Document{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	return doc, ok
}

// IDs lists registered ids sorted by name.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.docs))
	for id := range r.docs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of registered documents.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
