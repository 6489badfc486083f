package event

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/paulmach/orb"

	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/track"
)

// Type enumerates the event kinds produced by the detection engine.
type Type string

const (
	TypeSectionEnter Type = "section-enter"
	TypeSectionLeave Type = "section-leave"
	TypeEnterScene   Type = "enter-scene"
	TypeLeaveScene   Type = "leave-scene"
)

// ErrImproperFilename indicates a video filename that does not follow the
// "<hostname>_<rest>" pattern required for hostname stamping.
var ErrImproperFilename = errors.New("improperly formatted filename")

// fileNamePattern extracts the camera hostname from a video filename such
// as "myhostname_2022-01-01.mp4".
var fileNamePattern = regexp.MustCompile(`(?P<hostname>[A-Za-z0-9]+)_.*\..*`)

// ExtractHostname parses the hostname prefix out of a video filename.
// Returns ErrImproperFilename when the name does not match the pattern.
func ExtractHostname(name string) (string, error) {
	match := fileNamePattern.FindStringSubmatch(name)
	if match == nil {
		return "", fmt.Errorf("%w: could not parse hostname from %q", ErrImproperFilename, name)
	}
	return match[fileNamePattern.SubexpIndex("hostname")], nil
}

// Event is a typed, timestamped record of a track crossing a section or
// entering/leaving the observed scene. Immutable after creation.
type Event struct {
	RoadUserID   track.ID
	RoadUserType string
	Hostname     string
	Occurrence   time.Time
	FrameNumber  int
	// SectionID is empty for scene-boundary events.
	SectionID  string
	Coordinate orb.Point
	Type       Type
	Direction  geometry.DirectionVector
	VideoName  string
}

// Validate checks the event's value constraints.
func (e Event) Validate() error {
	if e.FrameNumber < 1 {
		return fmt.Errorf("frame number must be at least 1, got %d", e.FrameNumber)
	}
	return nil
}
