package memory

import (
	"encoding/json"
	"sync"
)

// documents keeps JSON-encoded copies keyed by id, so callers never share
// slices with stored values. Insertion order is kept for listings.
type documents[T any] struct {
	mu    sync.RWMutex
	items map[string][]byte
	order []string
}

func newDocuments[T any]() *documents[T] {
	return &documents[T]{items: make(map[string][]byte)}
}

func (d *documents[T]) put(id string, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[id]; !ok {
		d.order = append(d.order, id)
	}
	d.items[id] = data
	return nil
}

func (d *documents[T]) get(id string) (T, bool, error) {
	d.mu.RLock()
	data, ok := d.items[id]
	d.mu.RUnlock()
	var doc T
	if !ok {
		return doc, false, nil
	}
	err := json.Unmarshal(data, &doc)
	return doc, true, err
}

func (d *documents[T]) remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[id]; !ok {
		return false
	}
	delete(d.items, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// find decodes every document passing match, in insertion order.
func (d *documents[T]) find(match func(T) bool) ([]T, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]T, 0)
	for _, id := range d.order {
		var doc T
		if err := json.Unmarshal(d.items[id], &doc); err != nil {
			return nil, err
		}
		if match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// update applies fn to the stored document under the write lock and stores the
// result. It reports false if id is unknown; an error from fn aborts the write.
func (d *documents[T]) update(id string, fn func(*T) error) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.items[id]
	if !ok {
		return false, nil
	}
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return true, err
	}
	if err := fn(&doc); err != nil {
		return true, err
	}
	next, err := json.Marshal(doc)
	if err != nil {
		return true, err
	}
	d.items[id] = next
	return true, nil
}
