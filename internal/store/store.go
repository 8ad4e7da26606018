package store

import (
	"sync"

	"github.com/dealwire/dealbot/internal/models"
)

// Store is the in-memory application state: the append-only record of every
// extracted deal plus the FIFO queue of deals awaiting cross-posting. Both
// live for the process lifetime; there is no eviction.
//
// Every mutation is a single step under the mutex, so concurrent message
// handlers and scheduler ticks never observe a half-applied update.
type Store struct {
	mu    sync.Mutex
	deals []models.Deal
	queue []models.Deal
}

func New() *Store {
	return &Store{}
}

// Add appends the deal to the permanent record and enqueues it for
// publishing in one atomic step.
func (s *Store) Add(deal models.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = append(s.deals, deal)
	s.queue = append(s.queue, deal)
}

// Deals returns a snapshot of every recorded deal in insertion order.
func (s *Store) Deals() []models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Deal, len(s.deals))
	copy(out, s.deals)
	return out
}

// DequeueOne removes and returns the oldest queued deal. ok is false when
// the queue is empty.
func (s *Store) DequeueOne() (deal models.Deal, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return models.Deal{}, false
	}
	deal = s.queue[0]
	s.queue = s.queue[1:]
	return deal, true
}

// QueueLen reports the current publish backlog size.
func (s *Store) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
