// Package cutter splits tracks at the points where they cross a cutting
// section. Cutting works on raw detection coordinates; section offsets do
// not apply here.
package cutter

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/monitoring"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/track"
)

// Cutter splits tracks along a cutting section using a reusable track
// builder for the produced sub-tracks.
type Cutter struct {
	builder *track.Builder
}

// New creates a Cutter building sub-tracks with the given builder. The
// builder's classification calculator determines each sub-track's class
// from its own detections.
func New(builder *track.Builder) *Cutter {
	return &Cutter{builder: builder}
}

// CutTracks cuts every given track with the section and returns all
// resulting sub-tracks. Tracks that never cross the section come back as a
// single sub-track carrying the "_1" id suffix.
func (c *Cutter) CutTracks(tracks []*track.Track, cuttingSection *section.Section) ([]*track.Track, error) {
	if cuttingSection.Kind() != section.KindLine {
		return nil, fmt.Errorf("cutting requires a line section, got %q", cuttingSection.Kind())
	}
	var cut []*track.Track
	for _, t := range tracks {
		segments, err := c.cutTrack(t, cuttingSection)
		if err != nil {
			return nil, fmt.Errorf("cut track %s: %w", t.ID(), err)
		}
		cut = append(cut, segments...)
	}
	monitoring.Logf("cut %d tracks into %d segments with section %s", len(tracks), len(cut), cuttingSection.ID())
	return cut, nil
}

func (c *Cutter) cutTrack(t *track.Track, cuttingSection *section.Section) ([]*track.Track, error) {
	sectionLine := cuttingSection.Line()
	detections := t.Detections()

	var segments []*track.Track
	for i := 0; i < len(detections)-1; i++ {
		current := detections[i]
		next := detections[i+1]
		trackSegment := orb.LineString{
			{current.X, current.Y},
			{next.X, next.Y},
		}
		if geometry.LineIntersectsLine(trackSegment, sectionLine) {
			segment, err := c.buildSegment(t.ID(), len(segments)+1, current)
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment)
		} else {
			c.builder.AddDetection(current)
		}
	}

	segment, err := c.buildSegment(t.ID(), len(segments)+1, detections[len(detections)-1])
	if err != nil {
		return nil, err
	}
	return append(segments, segment), nil
}

// buildSegment closes the sub-track currently accumulated in the builder,
// ending with the given detection.
func (c *Cutter) buildSegment(original track.ID, counter int, last track.Detection) (*track.Track, error) {
	c.builder.SetID(track.ID(fmt.Sprintf("%s_%d", original, counter)))
	c.builder.AddDetection(last)
	return c.builder.Build()
}
