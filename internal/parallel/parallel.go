// Package parallel provides the execution strategies that fan per-track
// intersection work out across workers. The section list is shared and
// read-only for the duration of a pass; each worker owns a disjoint subset
// of tracks, so the only synchronisation point is the final join.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// IntersectFunc computes all section events of one track. Implementations
// must treat both arguments as read-only.
type IntersectFunc func(t *track.Track, sections []*section.Section) ([]event.Event, error)

// ExecutionStrategy runs an IntersectFunc over a track collection and
// flattens the per-track event lists. Within one track's slice the event
// order is preserved; cross-track ordering is not part of the contract. Any
// per-track error aborts the whole pass with no partial results.
type ExecutionStrategy interface {
	Execute(intersect IntersectFunc, tracks []*track.Track, sections []*section.Section) ([]event.Event, error)
}

// Sequential runs the intersect function track by track on the calling
// goroutine. Useful as a baseline and for deterministic tests.
type Sequential struct{}

// Execute implements ExecutionStrategy.
func (Sequential) Execute(intersect IntersectFunc, tracks []*track.Track, sections []*section.Section) ([]event.Event, error) {
	var events []event.Event
	for _, t := range tracks {
		trackEvents, err := intersect(t, sections)
		if err != nil {
			return nil, err
		}
		events = append(events, trackEvents...)
	}
	return events, nil
}

// workItem is one unit of intersection work: a track and its slot in the
// result table.
type workItem struct {
	index int
	track *track.Track
}

// WorkerPool distributes per-track intersection work across a fixed number
// of goroutines. The first worker error cancels the pass and propagates to
// the caller; retries are the caller's responsibility per whole-batch
// re-invocation.
type WorkerPool struct {
	mu         sync.Mutex
	numWorkers int
}

// NewWorkerPool creates a pool with the given worker count. Counts below
// one are a construction error.
func NewWorkerPool(numWorkers int) (*WorkerPool, error) {
	if numWorkers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", numWorkers)
	}
	return &WorkerPool{numWorkers: numWorkers}, nil
}

// DefaultWorkerPool creates a pool sized to the available CPU cores.
func DefaultWorkerPool() *WorkerPool {
	return &WorkerPool{numWorkers: runtime.NumCPU()}
}

// NumWorkers returns the configured worker count.
func (p *WorkerPool) NumWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numWorkers
}

// SetNumWorkers changes the worker count for subsequent executions.
// In-flight executions are unaffected.
func (p *WorkerPool) SetNumWorkers(numWorkers int) error {
	if numWorkers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", numWorkers)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.numWorkers = numWorkers
	return nil
}

// Execute implements ExecutionStrategy. Results are flattened in track
// input order, which preserves each track's internal event order; callers
// must not rely on cross-track ordering.
func (p *WorkerPool) Execute(intersect IntersectFunc, tracks []*track.Track, sections []*section.Section) ([]event.Event, error) {
	numWorkers := p.NumWorkers()
	if numWorkers > len(tracks) {
		numWorkers = len(tracks)
	}
	if numWorkers < 1 {
		return nil, nil // no tracks
	}

	results := make([][]event.Event, len(tracks))
	g, ctx := errgroup.WithContext(context.Background())

	jobs := make(chan workItem)
	g.Go(func() error {
		defer close(jobs)
		for i, t := range tracks {
			select {
			case jobs <- workItem{index: i, track: t}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for item := range jobs {
				trackEvents, err := intersect(item.track, sections)
				if err != nil {
					return fmt.Errorf("track %s: %w", item.track.ID(), err)
				}
				results[item.index] = trackEvents
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var events []event.Event
	for _, trackEvents := range results {
		events = append(events, trackEvents...)
	}
	return events, nil
}
