package event

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/track"
)

// ErrIncompleteBuilder indicates that Create was called before every
// required field was set. It always reflects a caller wiring bug, not a
// geometric non-intersection.
var ErrIncompleteBuilder = errors.New("incomplete event builder setup")

// Builder accumulates the per-crossing fields of an event and stamps them
// onto a detection. The per-detection fields (direction, coordinate) must be
// set again before each Create; identity fields (event type, road user
// type) persist across calls so one builder serves a whole intersection
// pass.
type Builder interface {
	SetRoadUserType(roadUserType string)
	SetEventType(eventType Type)
	// EventType returns the currently configured event type, or "" when
	// unset. Strategies use it to look up the matching section offset.
	EventType() Type
	SetDirection(direction geometry.DirectionVector)
	SetCoordinate(coordinate orb.Point)
	// Create builds the event anchored at the given detection. It fails
	// with ErrIncompleteBuilder when a required field is missing, with
	// ErrImproperFilename when the detection's video name carries no
	// hostname prefix, and when the built event fails validation.
	Create(detection track.Detection) (Event, error)
}

// builderState holds the fields shared by both builder variants.
type builderState struct {
	roadUserType string
	eventType    Type
	direction    geometry.DirectionVector
	coordinate   orb.Point
	directionSet bool
	coordSet     bool
}

func (b *builderState) SetRoadUserType(roadUserType string) { b.roadUserType = roadUserType }
func (b *builderState) SetEventType(eventType Type)         { b.eventType = eventType }
func (b *builderState) EventType() Type                     { return b.eventType }

func (b *builderState) SetDirection(direction geometry.DirectionVector) {
	b.direction = direction
	b.directionSet = true
}

func (b *builderState) SetCoordinate(coordinate orb.Point) {
	b.coordinate = coordinate
	b.coordSet = true
}

func (b *builderState) validate() error {
	if b.eventType == "" {
		return fmt.Errorf("%w: event type not set", ErrIncompleteBuilder)
	}
	if b.roadUserType == "" {
		return fmt.Errorf("%w: road user type not set", ErrIncompleteBuilder)
	}
	if !b.directionSet {
		return fmt.Errorf("%w: direction vector not set", ErrIncompleteBuilder)
	}
	if !b.coordSet {
		return fmt.Errorf("%w: event coordinate not set", ErrIncompleteBuilder)
	}
	return nil
}

func (b *builderState) create(detection track.Detection, sectionID string) (Event, error) {
	hostname, err := ExtractHostname(detection.VideoName)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		RoadUserID:   detection.TrackID,
		RoadUserType: b.roadUserType,
		Hostname:     hostname,
		Occurrence:   detection.Occurrence,
		FrameNumber:  detection.Frame,
		SectionID:    sectionID,
		Coordinate:   b.coordinate,
		Type:         b.eventType,
		Direction:    b.direction,
		VideoName:    detection.VideoName,
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// SectionEventBuilder builds events bound to a section. The section id must
// be set before the first Create.
type SectionEventBuilder struct {
	builderState
	sectionID string
}

// NewSectionEventBuilder creates an empty section-bound event builder.
func NewSectionEventBuilder() *SectionEventBuilder {
	return &SectionEventBuilder{}
}

// SetSectionID sets the id of the section the events belong to.
func (b *SectionEventBuilder) SetSectionID(id string) { b.sectionID = id }

// Create builds a section event anchored at the given detection.
func (b *SectionEventBuilder) Create(detection track.Detection) (Event, error) {
	if b.sectionID == "" {
		return Event{}, fmt.Errorf("%w: section id not set", ErrIncompleteBuilder)
	}
	if err := b.validate(); err != nil {
		return Event{}, err
	}
	return b.create(detection, b.sectionID)
}

// SceneEventBuilder builds scene-boundary events, which carry no section id.
type SceneEventBuilder struct {
	builderState
}

// NewSceneEventBuilder creates an empty scene-bound event builder.
func NewSceneEventBuilder() *SceneEventBuilder {
	return &SceneEventBuilder{}
}

// Create builds a scene event anchored at the given detection.
func (b *SceneEventBuilder) Create(detection track.Detection) (Event, error) {
	if err := b.validate(); err != nil {
		return Event{}, err
	}
	return b.create(detection, "")
}
