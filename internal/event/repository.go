package event

import "sync"

// RepositoryChange describes one batch mutation of the event repository.
// Additions carry an empty Removed list; Clear carries an empty Added list.
type RepositoryChange struct {
	Added   []Event
	Removed []Event
}

// Observer is notified exactly once per repository batch mutation.
type Observer func(change RepositoryChange)

// Repository is the in-memory event sink the orchestrator publishes into.
// The orchestrator is the single writer; reads may happen concurrently.
type Repository struct {
	mu        sync.RWMutex
	events    []Event
	observers []Observer
}

// NewRepository creates an empty event repository.
func NewRepository() *Repository {
	return &Repository{}
}

// RegisterObserver adds an observer for repository changes.
func (r *Repository) RegisterObserver(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// Add stores a single event and notifies observers.
func (r *Repository) Add(e Event) {
	r.AddAll([]Event{e})
}

// AddAll stores a batch of events and notifies observers exactly once.
// An empty batch is a no-op.
func (r *Repository) AddAll(events []Event) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, events...)
	observers := r.observers
	r.mu.Unlock()

	added := make([]Event, len(events))
	copy(added, events)
	for _, observer := range observers {
		observer(RepositoryChange{Added: added})
	}
}

// GetAll returns a copy of all stored events in insertion order.
func (r *Repository) GetAll() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Clear removes all events. Observers are notified with the removed list
// only when the repository actually held events.
func (r *Repository) Clear() {
	r.mu.Lock()
	removed := r.events
	r.events = nil
	observers := r.observers
	r.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, observer := range observers {
		observer(RepositoryChange{Removed: removed})
	}
}

// IsEmpty reports whether the repository holds no events.
func (r *Repository) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events) == 0
}
