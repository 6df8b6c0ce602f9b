package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/bookshelf/backend/internal/model/book"
)

// Publisher receives catalogue events after successful writes.
type Publisher interface {
	Publish(ev book.Event)
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides book id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithPublisher attaches a change feed.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLegacyList makes List return every book regardless of filters.
func WithLegacyList(enabled bool) Option {
	return func(s *Service) { s.legacyList = enabled }
}

// WithLogger sets the service logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// Service implements the book operations over a single owned store.
type Service struct {
	mu         sync.RWMutex
	store      book.Store
	now        func() time.Time
	newID      func() string
	publisher  Publisher
	legacyList bool
	log        logrus.FieldLogger
}

// NewService wraps store. A nil store starts an empty in-memory catalogue.
func NewService(store book.Store, opts ...Option) *Service {
	if store == nil {
		store = book.NewMemoryStore(nil)
	}
	s := &Service{
		store: store,
		now:   time.Now,
		newID: NewID,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "catalog")
	return s
}

// Create validates in, stores a new book and returns its id.
func (s *Service) Create(_ context.Context, in book.Input) (string, error) {
	if err := validate(OpCreate, in); err != nil {
		return "", err
	}

	now := book.FormatTime(s.now())
	b := apply(book.Book{
		ID:         s.newID(),
		InsertedAt: now,
		UpdatedAt:  now,
	}, in)

	s.mu.Lock()
	s.store.Insert(b)
	_, ok := s.store.FindByID(b.ID)
	s.mu.Unlock()

	if !ok {
		s.log.WithField("book_id", b.ID).Error("book missing right after insert")
		return "", fmt.Errorf("create book %s: %w", b.ID, ErrStoreVerification)
	}

	s.publish(book.EventCreated, b.ID, &b)
	return b.ID, nil
}

// List returns the projection of every book matching f.
func (s *Service) List(_ context.Context, f book.Filter) []book.Summary {
	s.mu.RLock()
	all := s.store.All()
	s.mu.RUnlock()

	matched := filter(all, f)
	if s.legacyList && !f.Empty() {
		s.log.WithFields(logrus.Fields{
			"matched": len(matched),
			"total":   len(all),
		}).Debug("legacy list mode, returning unfiltered books")
		matched = all
	}

	out := make([]book.Summary, 0, len(matched))
	for _, b := range matched {
		out = append(out, b.Summarize())
	}
	return out
}

// Get returns the full record for id.
func (s *Service) Get(_ context.Context, id string) (book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.store.FindByID(id)
	if !ok {
		return book.Book{}, fmt.Errorf("get book %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// Update validates in and replaces the mutable fields of book id.
// The id and insertedAt are kept and updatedAt is refreshed.
func (s *Service) Update(_ context.Context, id string, in book.Input) error {
	if err := validate(OpUpdate, in); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.store.IndexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("update book %s: %w", id, ErrNotFound)
	}
	current, _ := s.store.FindByID(id)
	updated := apply(current, in)
	updated.UpdatedAt = s.nextUpdatedAt(current.UpdatedAt)
	s.store.ReplaceAt(idx, updated)
	s.mu.Unlock()

	s.publish(book.EventUpdated, id, &updated)
	return nil
}

// Delete removes book id.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	idx := s.store.IndexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete book %s: %w", id, ErrNotFound)
	}
	s.store.RemoveAt(idx)
	s.mu.Unlock()

	s.publish(book.EventDeleted, id, nil)
	return nil
}

// Count returns the number of stored books.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// nextUpdatedAt returns the current time, nudged forward so it is always later
// than prev at the timestamp resolution.
func (s *Service) nextUpdatedAt(prev string) string {
	next := s.now().UTC().Truncate(time.Millisecond)
	if last, err := time.Parse(book.TimeLayout, prev); err == nil && !next.After(last) {
		next = last.Add(time.Millisecond)
	}
	return book.FormatTime(next)
}

func (s *Service) publish(typ book.EventType, id string, b *book.Book) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(book.Event{
		Type:   typ,
		BookID: id,
		Book:   b,
		At:     s.now().UTC(),
	})
}

func filter(books []book.Book, f book.Filter) []book.Book {
	if f.Empty() {
		return books
	}

	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if f.Name != nil && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(*f.Name)) {
			continue
		}
		if f.Reading != nil && !matchesFlag(*f.Reading, b.Reading) {
			continue
		}
		if f.Finished != nil && !matchesFlag(*f.Finished, b.Finished) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// matchesFlag compares a boolean-like query value against v. An empty value
// means false; anything strconv.ParseBool rejects matches nothing.
func matchesFlag(raw string, v bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return !v
	}
	want, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return want == v
}
