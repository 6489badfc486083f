package track

import (
	"sort"
	"sync"
)

// ListObserver is notified once per batch with the ids of tracks added to
// or removed from the repository.
type ListObserver func(ids []ID)

// Repository is the in-memory canonical track store. It is safe for
// concurrent use; the intersection engine only ever reads from it.
type Repository struct {
	mu        sync.RWMutex
	tracks    map[ID]*Track
	observers []ListObserver
}

// NewRepository creates an empty track repository.
func NewRepository() *Repository {
	return &Repository{tracks: make(map[ID]*Track)}
}

// RegisterListObserver adds an observer notified about batch additions and
// removals.
func (r *Repository) RegisterListObserver(observer ListObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// Add stores a single track and notifies observers.
func (r *Repository) Add(t *Track) {
	r.mu.Lock()
	r.tracks[t.ID()] = t
	observers := r.observers
	r.mu.Unlock()

	notify(observers, []ID{t.ID()})
}

// AddAll stores multiple tracks and notifies observers exactly once.
func (r *Repository) AddAll(tracks []*Track) {
	if len(tracks) == 0 {
		return
	}
	ids := make([]ID, len(tracks))
	r.mu.Lock()
	for i, t := range tracks {
		r.tracks[t.ID()] = t
		ids[i] = t.ID()
	}
	observers := r.observers
	r.mu.Unlock()

	notify(observers, ids)
}

// Get returns the track for the given id, if present.
func (r *Repository) Get(id ID) (*Track, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tracks[id]
	return t, ok
}

// GetAll returns all tracks ordered by id.
func (r *Repository) GetAll() []*Track {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(*Track) bool { return true })
}

// AllWithoutSingleDetections returns all tracks carrying at least two
// detections, ordered by id. Construction already enforces the two
// detection minimum; the filter guards the contract regardless of how a
// track was produced.
func (r *Repository) AllWithoutSingleDetections() []*Track {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(t *Track) bool { return len(t.Detections()) >= 2 })
}

// RemoveAll deletes the tracks with the given ids and notifies observers
// once. Unknown ids are ignored.
func (r *Repository) RemoveAll(ids []ID) {
	if len(ids) == 0 {
		return
	}
	r.mu.Lock()
	for _, id := range ids {
		delete(r.tracks, id)
	}
	observers := r.observers
	r.mu.Unlock()

	notify(observers, ids)
}

// Len returns the number of stored tracks.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tracks)
}

func (r *Repository) sortedLocked(keep func(*Track) bool) []*Track {
	out := make([]*Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func notify(observers []ListObserver, ids []ID) {
	for _, observer := range observers {
		observer(ids)
	}
}
