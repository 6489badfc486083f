package section

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrMissingSection indicates a lookup for a section id not present in the
// repository.
var ErrMissingSection = errors.New("section not found")

// ListObserver is notified once per batch with the ids of sections added to
// or removed from the repository.
type ListObserver func(ids []ID)

// ChangedObserver is notified when the content of a single section changes.
type ChangedObserver func(id ID)

// Repository is the in-memory canonical section store.
type Repository struct {
	mu               sync.RWMutex
	sections         map[ID]*Section
	listObservers    []ListObserver
	changedObservers []ChangedObserver
}

// NewRepository creates an empty section repository.
func NewRepository() *Repository {
	return &Repository{sections: make(map[ID]*Section)}
}

// RegisterListObserver adds an observer for batch additions and removals.
func (r *Repository) RegisterListObserver(observer ListObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listObservers = append(r.listObservers, observer)
}

// RegisterChangedObserver adds an observer for single-section content
// changes.
func (r *Repository) RegisterChangedObserver(observer ChangedObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changedObservers = append(r.changedObservers, observer)
}

// Add stores a single section and notifies list observers.
func (r *Repository) Add(s *Section) {
	r.AddAll([]*Section{s})
}

// AddAll stores several sections and notifies list observers exactly once.
func (r *Repository) AddAll(sections []*Section) {
	if len(sections) == 0 {
		return
	}
	ids := make([]ID, len(sections))
	r.mu.Lock()
	for i, s := range sections {
		r.sections[s.ID()] = s
		ids[i] = s.ID()
	}
	observers := r.listObservers
	r.mu.Unlock()

	for _, observer := range observers {
		observer(ids)
	}
}

// Get returns the section for the given id, if present.
func (r *Repository) Get(id ID) (*Section, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sections[id]
	return s, ok
}

// GetAll returns all sections ordered by id.
func (r *Repository) GetAll() []*Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Section, 0, len(r.sections))
	for _, s := range r.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Remove deletes the section with the given id and notifies list
// observers. Removing an unknown id is a no-op.
func (r *Repository) Remove(id ID) {
	r.mu.Lock()
	_, ok := r.sections[id]
	delete(r.sections, id)
	observers := r.listObservers
	r.mu.Unlock()

	if !ok {
		return
	}
	for _, observer := range observers {
		observer([]ID{id})
	}
}

// Update replaces a stored section and notifies changed observers.
func (r *Repository) Update(s *Section) {
	r.mu.Lock()
	r.sections[s.ID()] = s
	observers := r.changedObservers
	r.mu.Unlock()

	for _, observer := range observers {
		observer(s.ID())
	}
}

// UpdatePluginData stores or merges the plugin value under key on the
// section newID. When the plugin data moved between sections, the value is
// removed from oldID first. Changed observers fire for every touched
// section.
func (r *Repository) UpdatePluginData(key string, newID ID, value map[string]any, oldID ID) error {
	if newID != oldID {
		if err := r.RemovePluginData(key, oldID); err != nil {
			return err
		}
	}

	r.mu.Lock()
	s, ok := r.sections[newID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMissingSection, newID)
	}
	if existing, ok := s.pluginData[key]; ok {
		for k, v := range value {
			existing[k] = v
		}
	} else {
		s.pluginData[key] = value
	}
	observers := r.changedObservers
	r.mu.Unlock()

	for _, observer := range observers {
		observer(newID)
	}
	return nil
}

// RemovePluginData deletes the plugin value under key from the given
// section, notifying changed observers only when a value was present.
func (r *Repository) RemovePluginData(key string, id ID) error {
	r.mu.Lock()
	s, ok := r.sections[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMissingSection, id)
	}
	_, present := s.pluginData[key]
	delete(s.pluginData, key)
	observers := r.changedObservers
	r.mu.Unlock()

	if !present {
		return nil
	}
	for _, observer := range observers {
		observer(id)
	}
	return nil
}
