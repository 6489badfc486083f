package intersect

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// Strategy computes the ordered crossing events of one track against one
// section. The caller supplies a builder already seeded with the section
// identity and the enter event type; the strategy sets the road user type,
// per-crossing direction and coordinate. Running a strategy twice against
// the same inputs with a fresh builder yields identical event lists.
type Strategy interface {
	Intersect(t *track.Track, builder event.Builder) ([]event.Event, error)
}

// ErrSectionKind indicates a strategy constructed with the wrong section
// variant.
var ErrSectionKind = fmt.Errorf("strategy does not support this section kind")

// SmallestSegments intersects a line section with every two-detection
// segment of the track. A track crossing the line N times yields N events,
// one per crossing segment, in detection order, each anchored at the later
// detection of its segment.
type SmallestSegments struct {
	section *section.Section
}

// NewSmallestSegments creates the smallest-segments strategy for a line
// section.
func NewSmallestSegments(s *section.Section) (*SmallestSegments, error) {
	if s.Kind() != section.KindLine {
		return nil, fmt.Errorf("%w: smallest-segments needs %s, got %s", ErrSectionKind, section.KindLine, s.Kind())
	}
	return &SmallestSegments{section: s}, nil
}

// Intersect implements Strategy.
func (s *SmallestSegments) Intersect(t *track.Track, builder event.Builder) ([]event.Event, error) {
	offset, err := s.section.Offset(event.TypeSectionEnter)
	if err != nil {
		return nil, err
	}
	builder.SetRoadUserType(t.Classification())

	sectionLine := s.section.Line()
	polyline := t.Polyline(offset)
	if len(polyline) < 2 {
		return nil, nil
	}
	// Fast reject: if the whole polyline misses the section, no segment
	// can cross it.
	if !geometry.LineIntersectsLine(sectionLine, polyline) {
		return nil, nil
	}

	var events []event.Event
	detections := t.Detections()
	for i := 0; i+1 < len(detections); i++ {
		current, next := polyline[i], polyline[i+1]
		if !geometry.LineIntersectsLine(sectionLine, orb.LineString{current, next}) {
			continue
		}
		builder.SetDirection(geometry.Direction(current, next))
		builder.SetCoordinate(next)
		e, err := builder.Create(detections[i+1])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// AreaPoints intersects an area section by classifying every sampled track
// point as inside or outside and emitting one event per state flip. Unlike
// the line strategies it guarantees at most one enter/leave transition per
// state change, not one event per raw segment intersection. A track
// starting inside the area gets a synthetic enter event at its first
// detection.
type AreaPoints struct {
	section *section.Section
}

// NewAreaPoints creates the area-points strategy for an area section.
func NewAreaPoints(s *section.Section) (*AreaPoints, error) {
	if s.Kind() != section.KindArea {
		return nil, fmt.Errorf("%w: area-points needs %s, got %s", ErrSectionKind, section.KindArea, s.Kind())
	}
	return &AreaPoints{section: s}, nil
}

// Intersect implements Strategy.
func (s *AreaPoints) Intersect(t *track.Track, builder event.Builder) ([]event.Event, error) {
	offset, err := s.section.Offset(event.TypeSectionEnter)
	if err != nil {
		return nil, err
	}
	builder.SetRoadUserType(t.Classification())

	coordinates := t.Polyline(offset)
	if len(coordinates) < 2 {
		return nil, nil
	}
	inside := geometry.CoordinatesWithinPolygon(coordinates, s.section.Polygon())

	var events []event.Event
	detections := t.Detections()

	if inside[0] {
		builder.SetEventType(event.TypeSectionEnter)
		builder.SetDirection(geometry.Direction(coordinates[0], coordinates[1]))
		builder.SetCoordinate(coordinates[0])
		e, err := builder.Create(detections[0])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	currentlyInside := inside[0]
	for i := 1; i < len(coordinates); i++ {
		if inside[i] == currentlyInside {
			continue
		}
		if inside[i] {
			builder.SetEventType(event.TypeSectionEnter)
		} else {
			builder.SetEventType(event.TypeSectionLeave)
		}
		builder.SetDirection(geometry.Direction(coordinates[i-1], coordinates[i]))
		builder.SetCoordinate(coordinates[i])
		e, err := builder.Create(detections[i])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		currentlyInside = inside[i]
	}
	return events, nil
}

// SplittingLine intersects a line section by splitting the whole track
// polyline with the section line and recovering one event per interior
// split point. It is an alternative to SmallestSegments; the two can
// disagree at boundary-touching cases.
type SplittingLine struct {
	section *section.Section
}

// NewSplittingLine creates the splitting-line strategy for a line section.
func NewSplittingLine(s *section.Section) (*SplittingLine, error) {
	if s.Kind() != section.KindLine {
		return nil, fmt.Errorf("%w: splitting-line needs %s, got %s", ErrSectionKind, section.KindLine, s.Kind())
	}
	return &SplittingLine{section: s}, nil
}

// Intersect implements Strategy. The builder's event type selects the
// section offset, so it must be seeded before the call.
func (s *SplittingLine) Intersect(t *track.Track, builder event.Builder) ([]event.Event, error) {
	eventType := builder.EventType()
	if eventType == "" {
		return nil, fmt.Errorf("%w: event type not set before splitting-line intersect", event.ErrIncompleteBuilder)
	}
	offset, err := s.section.Offset(eventType)
	if err != nil {
		return nil, err
	}
	builder.SetRoadUserType(t.Classification())

	polyline := t.Polyline(offset)
	if len(polyline) < 2 {
		return nil, nil
	}
	parts := geometry.SplitLineWithLine(polyline, s.section.Line())
	if parts == nil {
		return nil, nil
	}

	var events []event.Event
	detections := t.Detections()
	currentIdx := len(parts[0])
	for n := 1; n < len(parts); n++ {
		// Each split duplicates its boundary point, once at the end of the
		// previous part and once at the start of this one; subtract 2n to
		// map the cumulative point count back to a detection index.
		detectionIdx := currentIdx - 2*n + 1
		if detectionIdx < 1 || detectionIdx >= len(detections) {
			return nil, fmt.Errorf("splitting-line: split %d maps outside track %s (index %d of %d detections)",
				n, t.ID(), detectionIdx, len(detections))
		}
		builder.SetDirection(geometry.Direction(polyline[detectionIdx-1], polyline[detectionIdx]))
		builder.SetCoordinate(polyline[detectionIdx])
		e, err := builder.Create(detections[detectionIdx])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		currentIdx += len(parts[n])
	}
	return events, nil
}
