package annotation

import "sync"

// Store is the ordered annotation collection for one active session.
// Append order is creation order and is preserved through partitioning;
// identity is solely by id (logical duplicates are allowed).
//
// The store is safe for concurrent use: after Add or Remove returns, every
// subsequent read observes the updated collection.
type Store struct {
	mu   sync.Mutex
	list []Annotation
}

// NewStore returns an empty store, optionally pre-populated with restored
// annotations in their persisted order.
func NewStore(restored ...Annotation) *Store {
	s := &Store{}
	s.list = append(s.list, restored...)
	return s
}

// Add appends a to the end of the collection.
func (s *Store) Add(a Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, a)
}

// Remove deletes the annotation with the given id. Removing an unknown id
// is a no-op: a double-delete racing the UI must be tolerated silently.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.list {
		if a.ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Annotation, len(s.list))
	copy(out, s.list)
	return out
}

// Len reports the number of stored annotations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// Partition splits the collection into highlights, comments, and sources,
// each preserving relative insertion order.
func (s *Store) Partition() (highlights, comments, sources []Annotation) {
	return Partition(s.All())
}

// Partition splits annotations by kind without reordering within a kind.
// The panel and the export renderer both consume these views.
func Partition(list []Annotation) (highlights, comments, sources []Annotation) {
	for _, a := range list {
		switch a.Type {
		case KindHighlight:
			highlights = append(highlights, a)
		case KindComment:
			comments = append(comments, a)
		case KindSource:
			sources = append(sources, a)
		}
	}
	return highlights, comments, sources
}
