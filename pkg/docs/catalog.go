package docs

import (
	"fmt"
	"sync"
	"time"

	"kitlocal/pkg/keys"
	"kitlocal/pkg/models"
	"kitlocal/pkg/normalize"
	"kitlocal/pkg/store"
	"kitlocal/pkg/writer"
)

// Catalog owns the client catalog document for one account scope.
type Catalog struct {
	st  *store.Store
	key string

	mu  sync.Mutex
	doc models.CatalogDocument
	deb *writer.Debounced
}

// OpenCatalog loads and normalizes the catalog for scope. A missing key
// yields the default empty document.
func OpenCatalog(st *store.Store, scope string, quiet time.Duration) (*Catalog, error) {
	key := keys.MakeScopedKey(keys.CatalogKey, scope)
	raw, err := loadRaw(st, key)
	if err != nil {
		return nil, err
	}
	c := &Catalog{st: st, key: key, doc: normalize.Catalog(raw)}
	c.deb = writer.NewDebounced("catalog", quiet, c.save)
	return c, nil
}

// Get returns a snapshot of the current document.
func (c *Catalog) Get() models.CatalogDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Update applies a mutation to the in-memory document and schedules a
// debounced write.
func (c *Catalog) Update(fn func(*models.CatalogDocument)) {
	c.mu.Lock()
	fn(&c.doc)
	c.mu.Unlock()
	c.deb.Trigger()
}

// AddProductFromKit appends a product to a client, rejecting a duplicate
// kitItemId within that client so "add from kit" cannot double-insert.
func (c *Catalog) AddProductFromKit(clientID string, p models.ClientProduct) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.doc.Clients {
		cl := &c.doc.Clients[i]
		if cl.ID != clientID {
			continue
		}
		if p.KitItemID != "" {
			for _, existing := range cl.Products {
				if existing.KitItemID == p.KitItemID {
					return fmt.Errorf("catalog: client %s already has kit item %s", clientID, p.KitItemID)
				}
			}
		}
		p.Category = normalize.CanonicalCategoryName(p.Category)
		cl.Products = append(cl.Products, p)
		cl.UpdatedAt = time.Now().UTC().UnixMilli()
		c.deb.Trigger()
		return nil
	}
	return fmt.Errorf("catalog: no client %s", clientID)
}

// Flush persists the current state immediately, surfacing any store error.
func (c *Catalog) Flush() error { return c.deb.Flush() }

// Close cancels any pending write and flushes.
func (c *Catalog) Close() error { return c.deb.Flush() }

func (c *Catalog) save() error {
	c.mu.Lock()
	doc := c.doc
	c.mu.Unlock()
	return saveJSON(c.st, c.key, doc)
}
