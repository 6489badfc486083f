// Package testutil provides shared test fixtures for tracks and detections.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roadlens/crossings/internal/track"
)

// DefaultOccurrence is the timestamp of the first detection produced by a
// fresh TrackFixture.
var DefaultOccurrence = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// TrackFixture builds tracks for tests with sensible defaults. Each call
// to At appends a detection at the given coordinate and advances the frame
// number and occurrence, so detections always satisfy the monotonic
// ordering the track constructor enforces.
type TrackFixture struct {
	id             track.ID
	classification string
	confidence     float64
	w, h           float64
	videoName      string

	frame      int
	occurrence time.Time
	detections []track.Detection
}

// NewTrackFixture creates a fixture with car-like defaults and a zero-size
// bounding box, so raw and offset coordinates coincide unless a test asks
// otherwise.
func NewTrackFixture(id string) *TrackFixture {
	return &TrackFixture{
		id:             track.ID(id),
		classification: "car",
		confidence:     0.9,
		videoName:      "myhostname_file.mp4",
		frame:          1,
		occurrence:     DefaultOccurrence,
	}
}

// WithClassification sets the classification for subsequent detections.
func (f *TrackFixture) WithClassification(classification string) *TrackFixture {
	f.classification = classification
	return f
}

// WithConfidence sets the confidence for subsequent detections.
func (f *TrackFixture) WithConfidence(confidence float64) *TrackFixture {
	f.confidence = confidence
	return f
}

// WithBox sets the bounding box size for subsequent detections.
func (f *TrackFixture) WithBox(w, h float64) *TrackFixture {
	f.w = w
	f.h = h
	return f
}

// WithVideoName sets the video name for subsequent detections.
func (f *TrackFixture) WithVideoName(name string) *TrackFixture {
	f.videoName = name
	return f
}

// At appends a detection at (x, y) and steps frame and occurrence forward.
func (f *TrackFixture) At(x, y float64) *TrackFixture {
	f.detections = append(f.detections, track.Detection{
		Classification: f.classification,
		Confidence:     f.confidence,
		X:              x,
		Y:              y,
		W:              f.w,
		H:              f.h,
		Frame:          f.frame,
		Occurrence:     f.occurrence,
		VideoName:      f.videoName,
		TrackID:        f.id,
	})
	f.frame++
	f.occurrence = f.occurrence.Add(time.Second)
	return f
}

// Detections returns the detections accumulated so far.
func (f *TrackFixture) Detections() []track.Detection {
	return f.detections
}

// Build constructs the track and fails the test on any validation error.
func (f *TrackFixture) Build(t *testing.T) *track.Track {
	t.Helper()
	built, err := track.New(f.id, f.classification, f.detections)
	require.NoError(t, err)
	return built
}
