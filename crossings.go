// Package crossings detects where vehicle tracks cross user-defined road
// sections and turns each crossing into a typed event. Tracks, sections
// and events live in in-memory repositories; an Analysis ties them to the
// intersection engine and the track cutting use case.
package crossings

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/config"
	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/cutter"
	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/intersect"
	"github.com/roadlens/crossings/internal/monitoring"
	"github.com/roadlens/crossings/internal/parallel"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// Analysis owns the repositories and the intersection engine. Create one
// with New, fill the track and section repositories, then call
// CreateEvents.
//
// Stored events are invalidated whenever tracks or sections change: any
// repository mutation clears the event repository, so readers never see
// events computed from stale inputs.
type Analysis struct {
	tracks   *track.Repository
	sections *section.Repository
	events   *event.Repository

	executor parallel.ExecutionStrategy
	selector intersect.StrategySelector
	scene    intersect.SceneDetector

	defaultOffset    geometry.RelativeOffset
	logSectionCounts bool
}

// New creates an Analysis configured from the given tuning config. A nil
// config uses the defaults.
func New(cfg *config.TuningConfig) (*Analysis, error) {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	pool, err := parallel.NewWorkerPool(cfg.GetNumWorkers())
	if err != nil {
		return nil, err
	}
	return NewWithExecutor(cfg, pool), nil
}

// NewWithExecutor creates an Analysis running intersections on the given
// execution strategy. Tests use this with parallel.Sequential.
func NewWithExecutor(cfg *config.TuningConfig, executor parallel.ExecutionStrategy) *Analysis {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	a := &Analysis{
		tracks:   track.NewRepository(),
		sections: section.NewRepository(),
		events:   event.NewRepository(),
		executor: executor,
		selector: intersect.StrategySelector{UseSplittingLine: cfg.GetUseSplittingLine()},

		defaultOffset:    geometry.RelativeOffset{X: cfg.GetEventOffsetX(), Y: cfg.GetEventOffsetY()},
		logSectionCounts: cfg.GetLogSectionCounts(),
	}
	a.tracks.RegisterListObserver(func([]track.ID) { a.events.Clear() })
	a.sections.RegisterListObserver(func([]section.ID) { a.events.Clear() })
	a.sections.RegisterChangedObserver(func(section.ID) { a.events.Clear() })
	return a
}

// Tracks returns the track repository.
func (a *Analysis) Tracks() *track.Repository { return a.tracks }

// Sections returns the section repository.
func (a *Analysis) Sections() *section.Repository { return a.sections }

// Events returns the event repository.
func (a *Analysis) Events() *event.Repository { return a.events }

// AddLineSection constructs a line section and registers it. When the
// caller sets no section-enter offset, the configured default event offset
// is used.
func (a *Analysis) AddLineSection(id section.ID, start, end orb.Point, offsets map[event.Type]geometry.RelativeOffset) (*section.Section, error) {
	s, err := section.NewLine(id, start, end, a.withDefaultOffset(offsets))
	if err != nil {
		return nil, err
	}
	a.sections.Add(s)
	return s, nil
}

// AddAreaSection constructs an area section and registers it. When the
// caller sets no section-enter offset, the configured default event offset
// is used.
func (a *Analysis) AddAreaSection(id section.ID, ring []orb.Point, offsets map[event.Type]geometry.RelativeOffset) (*section.Section, error) {
	s, err := section.NewArea(id, ring, a.withDefaultOffset(offsets))
	if err != nil {
		return nil, err
	}
	a.sections.Add(s)
	return s, nil
}

func (a *Analysis) withDefaultOffset(offsets map[event.Type]geometry.RelativeOffset) map[event.Type]geometry.RelativeOffset {
	if _, ok := offsets[event.TypeSectionEnter]; ok {
		return offsets
	}
	merged := make(map[event.Type]geometry.RelativeOffset, len(offsets)+1)
	for eventType, offset := range offsets {
		merged[eventType] = offset
	}
	merged[event.TypeSectionEnter] = a.defaultOffset
	return merged
}

// CreateEvents runs a full detection pass: every track against every
// section, plus the scene enter and leave events of every track. All
// events of the pass are published to the event repository in a single
// batch. Previously stored events are cleared first so a pass is
// idempotent with respect to repository content.
func (a *Analysis) CreateEvents() error {
	a.events.Clear()

	tracks := a.tracks.AllWithoutSingleDetections()
	sections := a.sections.GetAll()

	events, err := a.executor.Execute(a.selector.IntersectTrack, tracks, sections)
	if err != nil {
		return fmt.Errorf("intersect tracks: %w", err)
	}

	sceneEvents, err := a.scene.Detect(tracks)
	if err != nil {
		return fmt.Errorf("detect scene events: %w", err)
	}
	events = append(events, sceneEvents...)

	monitoring.Logf("created %d events from %d tracks and %d sections", len(events), len(tracks), len(sections))
	a.events.AddAll(events)
	return nil
}

// ClearEvents removes all stored events.
func (a *Analysis) ClearEvents() {
	a.events.Clear()
}

// CutTracksWithSection splits every track crossing the given cutting
// section into sub-tracks, replaces the originals in the track repository
// with the cut results, and finally removes the cutting section itself.
// Tracks that never cross the section are left untouched.
func (a *Analysis) CutTracksWithSection(id section.ID) error {
	cuttingSection, ok := a.sections.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", section.ErrMissingSection, id)
	}

	tracks := a.tracks.AllWithoutSingleDetections()
	intersecting, err := intersect.TracksIntersectingSections(tracks, []*section.Section{cuttingSection}, a.logSectionCounts)
	if err != nil {
		return fmt.Errorf("select tracks for cutting: %w", err)
	}

	candidates := make([]*track.Track, 0, len(intersecting))
	originalIDs := make([]track.ID, 0, len(intersecting))
	for _, t := range tracks {
		if _, hit := intersecting[t.ID()]; hit {
			candidates = append(candidates, t)
			originalIDs = append(originalIDs, t.ID())
		}
	}

	c := cutter.New(track.NewBuilder(track.MaxConfidenceCalculator{}))
	cut, err := c.CutTracks(candidates, cuttingSection)
	if err != nil {
		return fmt.Errorf("cut tracks with section %s: %w", id, err)
	}

	a.tracks.RemoveAll(originalIDs)
	a.tracks.AddAll(cut)
	a.sections.Remove(id)
	monitoring.Logf("replaced %d tracks with %d cut segments", len(originalIDs), len(cut))
	return nil
}
