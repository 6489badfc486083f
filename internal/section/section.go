package section

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/geometry"
)

// Construction and configuration errors.
var (
	// ErrDegenerateLine indicates a line section whose start and end
	// coincide, degenerating to a point.
	ErrDegenerateLine = errors.New("line section start and end must differ")
	// ErrMalformedArea indicates an area ring with fewer than four points
	// or one whose first and last points differ.
	ErrMalformedArea = errors.New("area must be a closed ring of at least four points")
	// ErrMissingOffset indicates a section with no relative offset
	// configured for a required event type. This is a configuration error,
	// never silently defaulted.
	ErrMissingOffset = errors.New("no relative offset configured for event type")
)

// ID identifies a section.
type ID string

// NewID returns a fresh, globally unique section id.
func NewID() ID {
	return ID(uuid.NewString())
}

// Kind tags the closed set of section variants.
type Kind string

const (
	// KindLine is a section defined by a two-point line.
	KindLine Kind = "line"
	// KindArea is a section defined by a closed polygon ring.
	KindArea Kind = "area"
)

// Section is a user-defined geometry tracks are tested against. It is a
// tagged variant over line and area shapes; the geometry accessors valid
// for a given value depend on its Kind. Immutable after construction except
// for the plugin-data bag, which the repository mutates under its own lock.
type Section struct {
	id      ID
	kind    Kind
	start   orb.Point
	end     orb.Point
	ring    orb.Ring
	offsets map[event.Type]geometry.RelativeOffset

	// pluginData is an opaque key→value store for callers outside the
	// core. The engine never interprets it.
	pluginData map[string]map[string]any
}

// NewLine validates and constructs a line section.
func NewLine(id ID, start, end orb.Point, offsets map[event.Type]geometry.RelativeOffset) (*Section, error) {
	if start.Equal(end) {
		return nil, fmt.Errorf("section %s: %w", id, ErrDegenerateLine)
	}
	owned, err := validateOffsets(id, offsets)
	if err != nil {
		return nil, err
	}
	return &Section{
		id:         id,
		kind:       KindLine,
		start:      start,
		end:        end,
		offsets:    owned,
		pluginData: make(map[string]map[string]any),
	}, nil
}

// NewArea validates and constructs an area section. The ring must contain
// at least four points with the first equal to the last.
func NewArea(id ID, ring []orb.Point, offsets map[event.Type]geometry.RelativeOffset) (*Section, error) {
	if len(ring) < 4 || !ring[0].Equal(ring[len(ring)-1]) {
		return nil, fmt.Errorf("section %s: %w", id, ErrMalformedArea)
	}
	owned, err := validateOffsets(id, offsets)
	if err != nil {
		return nil, err
	}
	r := make(orb.Ring, len(ring))
	copy(r, ring)
	return &Section{
		id:         id,
		kind:       KindArea,
		ring:       r,
		offsets:    owned,
		pluginData: make(map[string]map[string]any),
	}, nil
}

func validateOffsets(id ID, offsets map[event.Type]geometry.RelativeOffset) (map[event.Type]geometry.RelativeOffset, error) {
	owned := make(map[event.Type]geometry.RelativeOffset, len(offsets))
	for eventType, offset := range offsets {
		if err := offset.Validate(); err != nil {
			return nil, fmt.Errorf("section %s offset for %s: %w", id, eventType, err)
		}
		owned[eventType] = offset
	}
	return owned, nil
}

// ID returns the section id.
func (s *Section) ID() ID { return s.id }

// Kind returns the variant tag.
func (s *Section) Kind() Kind { return s.kind }

// Start returns the start coordinate of a line section.
func (s *Section) Start() orb.Point { return s.start }

// End returns the end coordinate of a line section.
func (s *Section) End() orb.Point { return s.end }

// Line returns the section geometry as a polyline. For areas this is the
// ring outline, used by cutting and coarse intersection checks.
func (s *Section) Line() orb.LineString {
	if s.kind == KindLine {
		return orb.LineString{s.start, s.end}
	}
	return orb.LineString(s.ring)
}

// Polygon returns the area geometry. Only valid for KindArea.
func (s *Section) Polygon() orb.Polygon {
	return orb.Polygon{s.ring}
}

// Coordinates returns all coordinates defining the section geometry.
func (s *Section) Coordinates() []orb.Point {
	return append([]orb.Point(nil), s.Line()...)
}

// Offset returns the relative offset configured for the given event type.
func (s *Section) Offset(eventType event.Type) (geometry.RelativeOffset, error) {
	offset, ok := s.offsets[eventType]
	if !ok {
		return geometry.RelativeOffset{}, fmt.Errorf("section %s, event type %s: %w", s.id, eventType, ErrMissingOffset)
	}
	return offset, nil
}

// PluginData returns the value stored for a plugin key, if any.
func (s *Section) PluginData(key string) (map[string]any, bool) {
	value, ok := s.pluginData[key]
	return value, ok
}
