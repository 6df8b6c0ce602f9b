package book

// Store is the ordered record collection the catalogue operates on.
// Implementations are not required to be safe for concurrent use.
type Store interface {
	Insert(b Book)
	FindByID(id string) (Book, bool)
	IndexOf(id string) int
	ReplaceAt(index int, b Book)
	RemoveAt(index int)
	All() []Book
	Len() int
}

// MemoryStore implements Store with an in-memory slice kept in insertion order.
type MemoryStore struct {
	items []Book
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied books.
func NewMemoryStore(items []Book) *MemoryStore {
	return &MemoryStore{items: append([]Book(nil), items...)}
}

// Insert appends b to the collection.
func (s *MemoryStore) Insert(b Book) {
	s.items = append(s.items, b)
}

// FindByID returns the first book with the given id.
func (s *MemoryStore) FindByID(id string) (Book, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Book{}, false
}

// IndexOf returns the position of the book with the given id, or -1.
func (s *MemoryStore) IndexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceAt overwrites the book at index. Out of range indexes are ignored.
func (s *MemoryStore) ReplaceAt(index int, b Book) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items[index] = b
}

// RemoveAt deletes the book at index, keeping the order of the rest.
func (s *MemoryStore) RemoveAt(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
}

// All returns a copy of every stored book in insertion order.
func (s *MemoryStore) All() []Book {
	return append([]Book(nil), s.items...)
}

// Len returns the number of stored books.
func (s *MemoryStore) Len() int {
	return len(s.items)
}
