package repository

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-templatemap/pkg/template"
)

// store holds cached templates. Callers serialise access.
type store interface {
	get(key string) (*template.Template, bool)
	put(key string, tpl *template.Template)
	remove(key string) bool
	purge()
	keys() []string
	len() int
}

// orderedStore is unbounded and remembers insertion order.
type orderedStore struct {
	entries map[string]*template.Template
	order   []string
}

func newOrderedStore() *orderedStore {
	return &orderedStore{entries: map[string]*template.Template{}}
}

func (s *orderedStore) get(key string) (*template.Template, bool) {
	tpl, ok := s.entries[key]
	return tpl, ok
}

func (s *orderedStore) put(key string, tpl *template.Template) {
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = tpl
}

func (s *orderedStore) remove(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *orderedStore) purge() {
	s.entries = map[string]*template.Template{}
	s.order = nil
}

func (s *orderedStore) keys() []string {
	return append([]string(nil), s.order...)
}

func (s *orderedStore) len() int { return len(s.entries) }

// lruStore bounds the cache and drops the least recently used entry.
type lruStore struct {
	cache *lru.Cache[string, *template.Template]
}

func newLRUStore(capacity int) (*lruStore, error) {
	cache, err := lru.New[string, *template.Template](capacity)
	if err != nil {
		return nil, err
	}
	return &lruStore{cache: cache}, nil
}

func (s *lruStore) get(key string) (*template.Template, bool) { return s.cache.Get(key) }

func (s *lruStore) put(key string, tpl *template.Template) { s.cache.Add(key, tpl) }

func (s *lruStore) remove(key string) bool { return s.cache.Remove(key) }

func (s *lruStore) purge() { s.cache.Purge() }

func (s *lruStore) keys() []string { return s.cache.Keys() }

func (s *lruStore) len() int { return s.cache.Len() }
