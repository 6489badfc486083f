package intersect

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// SectionActionDetector seeds a section event builder with the section
// identity and runs a strategy against a track.
type SectionActionDetector struct {
	strategy Strategy
	builder  *event.SectionEventBuilder
}

// NewSectionActionDetector creates a detector for one section strategy.
func NewSectionActionDetector(strategy Strategy, builder *event.SectionEventBuilder) *SectionActionDetector {
	return &SectionActionDetector{strategy: strategy, builder: builder}
}

// Detect returns the ordered crossing events of the track against the
// section.
func (d *SectionActionDetector) Detect(s *section.Section, t *track.Track) ([]event.Event, error) {
	d.builder.SetSectionID(string(s.ID()))
	d.builder.SetEventType(event.TypeSectionEnter)
	return d.strategy.Intersect(t, d.builder)
}

// SceneDetector emits the scene-boundary events of a track: one enter-scene
// event at its first detection and one leave-scene event at its last,
// regardless of any section geometry. Scene events carry no section id and
// use the raw detection position rather than an offset sample.
type SceneDetector struct{}

// DetectEnterScene builds the enter-scene event of a track.
func (SceneDetector) DetectEnterScene(t *track.Track) (event.Event, error) {
	detections := t.Detections()
	builder := event.NewSceneEventBuilder()
	builder.SetEventType(event.TypeEnterScene)
	builder.SetRoadUserType(t.Classification())
	first, second := detections[0], detections[1]
	builder.SetDirection(geometry.Direction(rawPoint(first), rawPoint(second)))
	builder.SetCoordinate(rawPoint(first))
	return builder.Create(first)
}

// DetectLeaveScene builds the leave-scene event of a track.
func (SceneDetector) DetectLeaveScene(t *track.Track) (event.Event, error) {
	detections := t.Detections()
	builder := event.NewSceneEventBuilder()
	builder.SetEventType(event.TypeLeaveScene)
	builder.SetRoadUserType(t.Classification())
	last, secondLast := detections[len(detections)-1], detections[len(detections)-2]
	builder.SetDirection(geometry.Direction(rawPoint(secondLast), rawPoint(last)))
	builder.SetCoordinate(rawPoint(last))
	return builder.Create(last)
}

// Detect returns both scene events for every given track, two per track in
// track order.
func (d SceneDetector) Detect(tracks []*track.Track) ([]event.Event, error) {
	events := make([]event.Event, 0, 2*len(tracks))
	for _, t := range tracks {
		enter, err := d.DetectEnterScene(t)
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", t.ID(), err)
		}
		leave, err := d.DetectLeaveScene(t)
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", t.ID(), err)
		}
		events = append(events, enter, leave)
	}
	return events, nil
}

func rawPoint(d track.Detection) orb.Point {
	return orb.Point{d.X, d.Y}
}
