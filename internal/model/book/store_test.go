package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seedBooks() []Book {
	return []Book{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Bravo"},
		{ID: "c", Name: "Charlie"},
	}
}

func TestMemoryStoreFindAndIndex(t *testing.T) {
	store := NewMemoryStore(seedBooks())

	got, ok := store.FindByID("b")
	assert.True(t, ok)
	assert.Equal(t, "Bravo", got.Name)

	assert.Equal(t, 2, store.IndexOf("c"))
	assert.Equal(t, -1, store.IndexOf("missing"))

	_, ok = store.FindByID("missing")
	assert.False(t, ok)
}

func TestMemoryStoreRemoveAtKeepsOrder(t *testing.T) {
	store := NewMemoryStore(seedBooks())

	store.RemoveAt(1)

	all := store.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[1].ID)

	store.RemoveAt(5)
	store.RemoveAt(-1)
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStoreAllReturnsCopy(t *testing.T) {
	store := NewMemoryStore(seedBooks())

	all := store.All()
	all[0].Name = "mutated"

	got, _ := store.FindByID("a")
	assert.Equal(t, "Alpha", got.Name)
}

func TestMemoryStoreInsertAndReplace(t *testing.T) {
	store := NewMemoryStore(nil)
	assert.Empty(t, store.All())

	store.Insert(Book{ID: "x", Name: "First"})
	store.Insert(Book{ID: "y", Name: "Second"})
	store.ReplaceAt(0, Book{ID: "x", Name: "Renamed"})
	store.ReplaceAt(9, Book{ID: "z"})

	all := store.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "Renamed", all[0].Name)
	assert.Equal(t, "y", all[1].ID)
}

func TestFilterEmpty(t *testing.T) {
	name := "x"
	assert.True(t, Filter{}.Empty())
	assert.False(t, Filter{Name: &name}.Empty())
}

func TestSummarize(t *testing.T) {
	b := Book{ID: "id", Name: "Name", Publisher: "Pub", Author: "ignored"}
	assert.Equal(t, Summary{ID: "id", Name: "Name", Publisher: "Pub"}, b.Summarize())
}
