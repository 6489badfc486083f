package crossings

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlens/crossings/internal/config"
	"github.com/roadlens/crossings/internal/event"
	"github.com/roadlens/crossings/internal/geometry"
	"github.com/roadlens/crossings/internal/monitoring"
	"github.com/roadlens/crossings/internal/parallel"
	"github.com/roadlens/crossings/internal/section"
	"github.com/roadlens/crossings/internal/testutil"
	"github.com/roadlens/crossings/internal/track"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func lineSection(t *testing.T, id section.ID) *section.Section {
	t.Helper()
	offsets := map[event.Type]geometry.RelativeOffset{event.TypeSectionEnter: {}}
	s, err := section.NewLine(id, orb.Point{5, 0}, orb.Point{5, 10}, offsets)
	require.NoError(t, err)
	return s
}

func newAnalysis() *Analysis {
	return NewWithExecutor(nil, parallel.Sequential{})
}

func TestNew(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, a.Tracks())
	assert.NotNil(t, a.Sections())
	assert.NotNil(t, a.Events())

	_, err = New(&config.TuningConfig{})
	assert.NoError(t, err, "empty config falls back to defaults")
}

func TestAddSectionsApplyDefaultOffset(t *testing.T) {
	x, y := 0.3, 0.7
	cfg := &config.TuningConfig{EventOffsetX: &x, EventOffsetY: &y}
	a := NewWithExecutor(cfg, parallel.Sequential{})

	t.Run("line section gets the configured default", func(t *testing.T) {
		s, err := a.AddLineSection("line", orb.Point{5, 0}, orb.Point{5, 10}, nil)
		require.NoError(t, err)
		offset, err := s.Offset(event.TypeSectionEnter)
		require.NoError(t, err)
		assert.Equal(t, geometry.RelativeOffset{X: 0.3, Y: 0.7}, offset)

		_, ok := a.Sections().Get("line")
		assert.True(t, ok, "the section is registered")
	})

	t.Run("area section gets the configured default", func(t *testing.T) {
		ring := []orb.Point{{5, 0}, {5, 10}, {15, 10}, {15, 0}, {5, 0}}
		s, err := a.AddAreaSection("area", ring, nil)
		require.NoError(t, err)
		offset, err := s.Offset(event.TypeSectionEnter)
		require.NoError(t, err)
		assert.Equal(t, geometry.RelativeOffset{X: 0.3, Y: 0.7}, offset)
	})

	t.Run("explicit offset wins", func(t *testing.T) {
		offsets := map[event.Type]geometry.RelativeOffset{event.TypeSectionEnter: {X: 1, Y: 1}}
		s, err := a.AddLineSection("explicit", orb.Point{0, 0}, orb.Point{1, 1}, offsets)
		require.NoError(t, err)
		offset, err := s.Offset(event.TypeSectionEnter)
		require.NoError(t, err)
		assert.Equal(t, geometry.RelativeOffset{X: 1, Y: 1}, offset)
	})

	t.Run("invalid geometry propagates", func(t *testing.T) {
		_, err := a.AddLineSection("bad", orb.Point{1, 1}, orb.Point{1, 1}, nil)
		assert.ErrorIs(t, err, section.ErrDegenerateLine)
	})
}

func TestCutTracksSectionCountLoggingDisabled(t *testing.T) {
	var lines []string
	original := monitoring.Logf
	monitoring.Logf = func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}
	defer func() { monitoring.Logf = original }()

	off := false
	a := NewWithExecutor(&config.TuningConfig{LogSectionCounts: &off}, parallel.Sequential{})
	a.Tracks().Add(testutil.NewTrackFixture("1").
		At(0, 5).At(3, 5).At(8, 5).At(10, 5).Build(t))
	a.Sections().Add(lineSection(t, "cut"))

	require.NoError(t, a.CutTracksWithSection("cut"))
	for _, line := range lines {
		assert.NotContains(t, line, "intersecting tracks")
	}
}

func TestCreateEvents(t *testing.T) {
	a := newAnalysis()

	crossing := testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t)
	missing := testutil.NewTrackFixture("2").At(0, 20).At(10, 20).Build(t)
	a.Tracks().AddAll([]*track.Track{crossing, missing})
	a.Sections().Add(lineSection(t, "s1"))

	require.NoError(t, a.CreateEvents())

	all := a.Events().GetAll()
	// One section-enter for the crossing track plus two scene events per
	// track.
	require.Len(t, all, 5)

	byType := map[event.Type]int{}
	for _, e := range all {
		byType[e.Type]++
	}
	assert.Equal(t, 1, byType[event.TypeSectionEnter])
	assert.Equal(t, 2, byType[event.TypeEnterScene])
	assert.Equal(t, 2, byType[event.TypeLeaveScene])

	sectionEvents := 0
	for _, e := range all {
		if e.SectionID != "" {
			sectionEvents++
			assert.Equal(t, track.ID("1"), e.RoadUserID)
			assert.Equal(t, "s1", e.SectionID)
		}
	}
	assert.Equal(t, 1, sectionEvents)
}

func TestCreateEventsPublishesOneBatch(t *testing.T) {
	a := newAnalysis()
	a.Tracks().Add(testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t))
	a.Sections().Add(lineSection(t, "s1"))

	batches := 0
	a.Events().RegisterObserver(func(c event.RepositoryChange) {
		if len(c.Added) > 0 {
			batches++
		}
	})

	require.NoError(t, a.CreateEvents())
	assert.Equal(t, 1, batches)
}

func TestCreateEventsIsIdempotent(t *testing.T) {
	a := newAnalysis()
	a.Tracks().Add(testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t))
	a.Sections().Add(lineSection(t, "s1"))

	require.NoError(t, a.CreateEvents())
	first := a.Events().GetAll()

	require.NoError(t, a.CreateEvents())
	second := a.Events().GetAll()
	assert.Equal(t, first, second)
}

func TestEventsInvalidatedOnRepositoryChange(t *testing.T) {
	a := newAnalysis()
	a.Tracks().Add(testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t))
	a.Sections().Add(lineSection(t, "s1"))
	require.NoError(t, a.CreateEvents())
	require.False(t, a.Events().IsEmpty())

	t.Run("track addition clears events", func(t *testing.T) {
		a.Tracks().Add(testutil.NewTrackFixture("2").At(0, 1).At(10, 1).Build(t))
		assert.True(t, a.Events().IsEmpty())
	})

	require.NoError(t, a.CreateEvents())
	require.False(t, a.Events().IsEmpty())

	t.Run("section addition clears events", func(t *testing.T) {
		a.Sections().Add(lineSection(t, "s2"))
		assert.True(t, a.Events().IsEmpty())
	})

	require.NoError(t, a.CreateEvents())
	require.False(t, a.Events().IsEmpty())

	t.Run("section update clears events", func(t *testing.T) {
		a.Sections().Update(lineSection(t, "s1"))
		assert.True(t, a.Events().IsEmpty())
	})
}

func TestClearEvents(t *testing.T) {
	a := newAnalysis()
	a.Tracks().Add(testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t))
	require.NoError(t, a.CreateEvents())
	require.False(t, a.Events().IsEmpty())

	a.ClearEvents()
	assert.True(t, a.Events().IsEmpty())
}

func TestCutTracksWithSection(t *testing.T) {
	a := newAnalysis()

	crossing := testutil.NewTrackFixture("1").
		At(0, 5).At(3, 5).At(8, 5).At(10, 5).Build(t)
	untouched := testutil.NewTrackFixture("2").At(0, 20).At(10, 20).Build(t)
	a.Tracks().AddAll([]*track.Track{crossing, untouched})
	a.Sections().Add(lineSection(t, "cut"))

	require.NoError(t, a.CutTracksWithSection("cut"))

	// The crossing track is replaced by its sub-tracks.
	_, ok := a.Tracks().Get("1")
	assert.False(t, ok)
	first, ok := a.Tracks().Get("1_1")
	require.True(t, ok)
	assert.Len(t, first.Detections(), 2)
	second, ok := a.Tracks().Get("1_2")
	require.True(t, ok)
	assert.Len(t, second.Detections(), 2)

	// The non-crossing track stays as-is.
	_, ok = a.Tracks().Get("2")
	assert.True(t, ok)

	// The cutting section is consumed by the operation.
	_, ok = a.Sections().Get("cut")
	assert.False(t, ok)
}

func TestCutTracksWithSectionMissing(t *testing.T) {
	a := newAnalysis()
	err := a.CutTracksWithSection("nope")
	assert.ErrorIs(t, err, section.ErrMissingSection)
}

func TestCutThenCreateEvents(t *testing.T) {
	a := newAnalysis()
	a.Tracks().Add(testutil.NewTrackFixture("1").
		At(0, 5).At(3, 5).At(8, 5).At(10, 5).Build(t))
	a.Sections().Add(lineSection(t, "cut"))
	a.Sections().Add(func() *section.Section {
		offsets := map[event.Type]geometry.RelativeOffset{event.TypeSectionEnter: {}}
		s, err := section.NewLine("far", orb.Point{100, 0}, orb.Point{100, 10}, offsets)
		require.NoError(t, err)
		return s
	}())

	require.NoError(t, a.CutTracksWithSection("cut"))
	require.NoError(t, a.CreateEvents())

	// Two sub-tracks, neither crossing the remaining section: scene events
	// only.
	all := a.Events().GetAll()
	require.Len(t, all, 4)
	for _, e := range all {
		assert.Empty(t, e.SectionID)
	}
}

func TestWorkerPoolMatchesSequential(t *testing.T) {
	buildRepos := func(a *Analysis) {
		tracks := []*track.Track{
			testutil.NewTrackFixture("1").At(0, 5).At(10, 5).Build(t),
			testutil.NewTrackFixture("2").At(0, 3).At(10, 3).At(0, 4).Build(t),
			testutil.NewTrackFixture("3").At(0, 20).At(10, 20).Build(t),
		}
		a.Tracks().AddAll(tracks)
		a.Sections().Add(lineSection(t, "s1"))
	}

	sequential := newAnalysis()
	buildRepos(sequential)
	require.NoError(t, sequential.CreateEvents())

	pool, err := parallel.NewWorkerPool(4)
	require.NoError(t, err)
	concurrent := NewWithExecutor(nil, pool)
	buildRepos(concurrent)
	require.NoError(t, concurrent.CreateEvents())

	assert.Equal(t, sequential.Events().GetAll(), concurrent.Events().GetAll())
}
