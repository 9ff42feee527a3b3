package database

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryDB is a process-local document store. Documents are kept as JSON so
// callers never share mutable state with the store.
type MemoryDB struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	docs  map[string]*memDoc
	order []string // insertion order
}

type memDoc struct {
	parent string
	data   []byte
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{collections: make(map[string]*memCollection)}
}

func (m *MemoryDB) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]*memDoc)}
		m.collections[name] = c
	}
	return c
}

// Put inserts or replaces the document stored under id. parent links the
// document to an owner for QueryByParent and DeleteByParent.
func (m *MemoryDB) Put(collection, id, parent string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = &memDoc{parent: parent, data: data}
	return nil
}

// Get decodes the document stored under id into out.
func (m *MemoryDB) Get(collection, id string, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	d, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(d.data, out)
}

// Update applies fn to the decoded document under id and stores the result.
// fn runs under the write lock.
func (m *MemoryDB) Update(collection, id string, fn func(raw []byte) (any, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	d, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc, err := fn(d.data)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	d.data = data
	return nil
}

// Scan returns the raw documents of a collection in insertion order. An empty
// parent matches every document.
func (m *MemoryDB) Scan(collection, parent string) [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil
	}
	out := make([][]byte, 0, len(c.order))
	for _, id := range c.order {
		d := c.docs[id]
		if parent != "" && d.parent != parent {
			continue
		}
		out = append(out, d.data)
	}
	return out
}

// QueryByParent decodes every document linked to parent through decode.
func (m *MemoryDB) QueryByParent(collection, parent string, decode func(raw []byte) error) error {
	for _, raw := range m.Scan(collection, parent) {
		if err := decode(raw); err != nil {
			return err
		}
	}
	return nil
}

// Count returns how many documents are linked to parent.
func (m *MemoryDB) Count(collection, parent string) int {
	return len(m.Scan(collection, parent))
}

func (m *MemoryDB) Delete(collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	c.order = removeID(c.order, id)
	return nil
}

// DeleteByParent removes every document linked to parent and reports how many
// were removed.
func (m *MemoryDB) DeleteByParent(collection, parent string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return 0
	}
	kept := c.order[:0]
	removed := 0
	for _, id := range c.order {
		if c.docs[id].parent == parent {
			delete(c.docs, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
