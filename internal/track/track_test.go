package track

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlens/crossings/internal/geometry"
)

var baseTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func detection(x, y float64, frame int) Detection {
	return Detection{
		Classification: "car",
		Confidence:     0.9,
		X:              x,
		Y:              y,
		W:              10,
		H:              10,
		Frame:          frame,
		Occurrence:     baseTime.Add(time.Duration(frame) * time.Second),
		VideoName:      "myhostname_file.mp4",
		TrackID:        "1",
	}
}

func TestIDValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ID("1").Validate())
	assert.NoError(t, ID("1_2").Validate())
	assert.ErrorIs(t, ID("").Validate(), ErrEmptyTrackID)
}

func TestDetectionValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, detection(0, 0, 1).Validate())
	})

	t.Run("confidence out of range", func(t *testing.T) {
		t.Parallel()
		d := detection(0, 0, 1)
		d.Confidence = 1.5
		assert.Error(t, d.Validate())
	})

	t.Run("negative bounding box", func(t *testing.T) {
		t.Parallel()
		d := detection(0, 0, 1)
		d.W = -1
		assert.Error(t, d.Validate())
	})

	t.Run("frame below one", func(t *testing.T) {
		t.Parallel()
		d := detection(0, 0, 1)
		d.Frame = 0
		assert.Error(t, d.Validate())
	})

	t.Run("missing track id", func(t *testing.T) {
		t.Parallel()
		d := detection(0, 0, 1)
		d.TrackID = ""
		assert.ErrorIs(t, d.Validate(), ErrEmptyTrackID)
	})
}

func TestDetectionCoordinateAt(t *testing.T) {
	t.Parallel()

	d := detection(10, 20, 1) // box 10x10

	assert.Equal(t, orb.Point{10, 20}, d.CoordinateAt(geometry.RelativeOffset{}))
	assert.Equal(t, orb.Point{15, 25}, d.CoordinateAt(geometry.RelativeOffset{X: 0.5, Y: 0.5}))
	assert.Equal(t, orb.Point{20, 30}, d.CoordinateAt(geometry.RelativeOffset{X: 1, Y: 1}))
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid track", func(t *testing.T) {
		t.Parallel()
		detections := []Detection{detection(0, 0, 1), detection(5, 0, 2)}
		tr, err := New("1", "car", detections)
		require.NoError(t, err)
		assert.Equal(t, ID("1"), tr.ID())
		assert.Equal(t, "car", tr.Classification())
		assert.Equal(t, detections, tr.Detections())
		assert.Equal(t, detections[0], tr.First())
		assert.Equal(t, detections[1], tr.Last())
	})

	t.Run("detections are copied", func(t *testing.T) {
		t.Parallel()
		detections := []Detection{detection(0, 0, 1), detection(5, 0, 2)}
		tr, err := New("1", "car", detections)
		require.NoError(t, err)

		detections[0].X = 99
		assert.Equal(t, 0.0, tr.First().X)
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()
		_, err := New("", "car", []Detection{detection(0, 0, 1), detection(5, 0, 2)})
		assert.ErrorIs(t, err, ErrEmptyTrackID)
	})

	t.Run("single detection", func(t *testing.T) {
		t.Parallel()
		_, err := New("1", "car", []Detection{detection(0, 0, 1)})
		assert.ErrorIs(t, err, ErrSingleDetectionTrack)
	})

	t.Run("unsorted detections", func(t *testing.T) {
		t.Parallel()
		_, err := New("1", "car", []Detection{detection(5, 0, 2), detection(0, 0, 1)})
		assert.ErrorIs(t, err, ErrUnsortedDetections)
	})

	t.Run("invalid detection", func(t *testing.T) {
		t.Parallel()
		bad := detection(5, 0, 2)
		bad.Confidence = 2
		_, err := New("1", "car", []Detection{detection(0, 0, 1), bad})
		assert.Error(t, err)
	})
}

func TestTrackPolyline(t *testing.T) {
	t.Parallel()

	tr, err := New("1", "car", []Detection{detection(0, 0, 1), detection(10, 0, 2), detection(10, 10, 3)})
	require.NoError(t, err)

	t.Run("raw corner", func(t *testing.T) {
		t.Parallel()
		want := orb.LineString{{0, 0}, {10, 0}, {10, 10}}
		assert.Equal(t, want, tr.Polyline(geometry.RelativeOffset{}))
	})

	t.Run("box center", func(t *testing.T) {
		t.Parallel()
		want := orb.LineString{{5, 5}, {15, 5}, {15, 15}}
		assert.Equal(t, want, tr.Polyline(geometry.RelativeOffset{X: 0.5, Y: 0.5}))
	})
}
