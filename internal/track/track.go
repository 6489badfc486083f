package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/geometry"
)

// Validation errors surfaced at construction time. They are fatal to the
// single object being built, never to a whole batch.
var (
	// ErrSingleDetectionTrack indicates an attempt to build a track with
	// fewer than two detections.
	ErrSingleDetectionTrack = errors.New("track needs at least two detections")
	// ErrUnsortedDetections indicates detections not sorted by occurrence.
	ErrUnsortedDetections = errors.New("detections must be sorted by occurrence")
	// ErrEmptyTrackID indicates a missing track id.
	ErrEmptyTrackID = errors.New("track id must not be empty")
)

// ID identifies a track. Detector-assigned tracks carry decimal ids
// ("1", "42"); cut sub-tracks carry synthetic ids of the form
// "<original>_<n>".
type ID string

// Validate returns an error when the id is empty.
func (id ID) Validate() error {
	if id == "" {
		return ErrEmptyTrackID
	}
	return nil
}

// Detection is one bounding-box observation of a road user in a single
// video frame. The bounding box uses the xywh format in image space.
type Detection struct {
	Classification string
	Confidence     float64
	X              float64
	Y              float64
	W              float64
	H              float64
	Frame          int
	Occurrence     time.Time
	VideoName      string
	Interpolated   bool
	TrackID        ID
}

// Validate checks the detection's value constraints: confidence within
// [0,1], non-negative bounding box fields and a frame number of at least 1.
func (d Detection) Validate() error {
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %v", d.Confidence)
	}
	if d.X < 0 || d.Y < 0 || d.W < 0 || d.H < 0 {
		return fmt.Errorf("bounding box fields must be non-negative, got (%v, %v, %v, %v)", d.X, d.Y, d.W, d.H)
	}
	if d.Frame < 1 {
		return fmt.Errorf("frame number must be at least 1, got %d", d.Frame)
	}
	return d.TrackID.Validate()
}

// CoordinateAt samples the detection's position: the point within its
// bounding box selected by the relative offset.
func (d Detection) CoordinateAt(offset geometry.RelativeOffset) orb.Point {
	return orb.Point{d.X + offset.X*d.W, d.Y + offset.Y*d.H}
}

// Track is the time-ordered sequence of detections of one physical road
// user. It is immutable once constructed.
type Track struct {
	id             ID
	classification string
	detections     []Detection
}

// New validates and constructs a track. The detections slice is copied;
// callers may reuse their slice afterwards.
func New(id ID, classification string, detections []Detection) (*Track, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if len(detections) < 2 {
		return nil, fmt.Errorf("track %s: %w", id, ErrSingleDetectionTrack)
	}
	for i, d := range detections {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("track %s detection %d: %w", id, i, err)
		}
		if i > 0 && d.Occurrence.Before(detections[i-1].Occurrence) {
			return nil, fmt.Errorf("track %s: %w", id, ErrUnsortedDetections)
		}
	}
	owned := make([]Detection, len(detections))
	copy(owned, detections)
	return &Track{id: id, classification: classification, detections: owned}, nil
}

// ID returns the track id.
func (t *Track) ID() ID { return t.id }

// Classification returns the track-level classification stamped at
// construction (see MaxConfidenceCalculator).
func (t *Track) Classification() string { return t.classification }

// Detections returns the track's detections in occurrence order. The
// returned slice is shared and must be treated as read-only.
func (t *Track) Detections() []Detection { return t.detections }

// First returns the earliest detection.
func (t *Track) First() Detection { return t.detections[0] }

// Last returns the latest detection.
func (t *Track) Last() Detection { return t.detections[len(t.detections)-1] }

// Polyline builds the track's polyline by sampling one offset coordinate
// per detection.
func (t *Track) Polyline(offset geometry.RelativeOffset) orb.LineString {
	line := make(orb.LineString, len(t.detections))
	for i, d := range t.detections {
		line[i] = d.CoordinateAt(offset)
	}
	return line
}
