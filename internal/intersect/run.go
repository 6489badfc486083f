package intersect

import (
	"fmt"

	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/monitoring"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// StrategySelector maps the closed section variant set onto a concrete
// strategy. Line sections use SmallestSegments unless UseSplittingLine is
// set; areas always use AreaPoints.
type StrategySelector struct {
	UseSplittingLine bool
}

// For returns the strategy for the given section.
func (s StrategySelector) For(sec *section.Section) (Strategy, error) {
	switch sec.Kind() {
	case section.KindLine:
		if s.UseSplittingLine {
			return NewSplittingLine(sec)
		}
		return NewSmallestSegments(sec)
	case section.KindArea:
		return NewAreaPoints(sec)
	}
	return nil, fmt.Errorf("unhandled section kind %q", sec.Kind())
}

// IntersectTrack computes all section events of one track against every
// given section, in caller-supplied section order. It is the unit of work
// handed to the execution strategies and matches parallel.IntersectFunc.
func (s StrategySelector) IntersectTrack(t *track.Track, sections []*section.Section) ([]event.Event, error) {
	var events []event.Event
	for _, sec := range sections {
		strategy, err := s.For(sec)
		if err != nil {
			return nil, err
		}
		detector := NewSectionActionDetector(strategy, event.NewSectionEventBuilder())
		sectionEvents, err := detector.Detect(sec, t)
		if err != nil {
			return nil, fmt.Errorf("track %s, section %s: %w", t.ID(), sec.ID(), err)
		}
		events = append(events, sectionEvents...)
	}
	return events, nil
}

// TracksIntersectingSections returns the set of track ids whose offset
// polyline intersects at least one of the given sections. When logCounts
// is set, per-section counts go to the package logger; the cutting use
// case consumes the result to pick its candidate tracks.
func TracksIntersectingSections(tracks []*track.Track, sections []*section.Section, logCounts bool) (map[track.ID]struct{}, error) {
	all := make(map[track.ID]struct{})
	for _, sec := range sections {
		offset, err := sec.Offset(event.TypeSectionEnter)
		if err != nil {
			return nil, err
		}
		sectionLine := sec.Line()
		count := 0
		for _, t := range tracks {
			if geometry.LineIntersectsLine(t.Polyline(offset), sectionLine) {
				all[t.ID()] = struct{}{}
				count++
			}
		}
		if logCounts {
			monitoring.Logf("section %s: %d intersecting tracks", sec.ID(), count)
		}
	}
	if logCounts {
		monitoring.Logf("all sections: %d intersecting tracks", len(all))
	}
	return all, nil
}
