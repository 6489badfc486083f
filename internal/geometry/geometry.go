package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// epsilon is the tolerance for collinearity and segment-parameter
// comparisons. Image-space coordinates are pixel-scale floats, so 1e-9 is
// far below any meaningful feature size.
const epsilon = 1e-9

// DistanceBetween returns the Euclidean distance between two points.
func DistanceBetween(p1, p2 orb.Point) float64 {
	return planar.Distance(p1, p2)
}

// LineIntersectsLine reports whether two polylines share at least one point.
// Touching endpoints and collinear overlaps count as intersections.
func LineIntersectsLine(a, b orb.LineString) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

// LineIntersectsPolygon reports whether the polyline shares at least one
// point with the polygon, either by crossing its boundary or by lying
// (partly or wholly) inside it.
func LineIntersectsPolygon(line orb.LineString, polygon orb.Polygon) bool {
	if len(line) < 2 || len(polygon) == 0 {
		return false
	}
	for _, ring := range polygon {
		if LineIntersectsLine(line, orb.LineString(ring)) {
			return true
		}
	}
	// No boundary crossing: the line is entirely inside or entirely outside.
	return planar.PolygonContains(polygon, line[0])
}

// CoordinatesWithinPolygon returns one boolean per input point, true iff the
// point lies inside the polygon. Boundary points are inside per the
// orb/planar convention.
func CoordinatesWithinPolygon(points []orb.Point, polygon orb.Polygon) []bool {
	within := make([]bool, len(points))
	for i, p := range points {
		within[i] = planar.PolygonContains(polygon, p)
	}
	return within
}

// SplitLineWithLine partitions subject at every point where it crosses
// splitter. It returns nil when the two lines do not cross. Each returned
// sub-line ends at a crossing point and the next sub-line begins with a
// duplicate of that point, in subject's original point order. Crossings that
// coincide with subject's first or last point do not produce an empty part.
//
// Parallel overlaps do not produce split points; only transversal crossings
// do.
func SplitLineWithLine(subject, splitter orb.LineString) []orb.LineString {
	if len(subject) < 2 || len(splitter) < 2 {
		return nil
	}

	var parts []orb.LineString
	current := orb.LineString{subject[0]}
	for i := 0; i+1 < len(subject); i++ {
		segStart, segEnd := subject[i], subject[i+1]
		for _, t := range segmentCutParams(segStart, segEnd, splitter) {
			if t <= epsilon {
				// Coincides with segStart: either the subject's first point
				// or a vertex already cut at the previous segment's end.
				continue
			}
			if i+2 == len(subject) && t >= 1-epsilon {
				// Coincides with the subject's final point.
				continue
			}
			pt := interpolate(segStart, segEnd, t)
			if t >= 1-epsilon {
				pt = segEnd
			}
			if !current[len(current)-1].Equal(pt) {
				current = append(current, pt)
			}
			parts = append(parts, current)
			current = orb.LineString{pt}
		}
		if !current[len(current)-1].Equal(segEnd) {
			current = append(current, segEnd)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	if len(current) >= 2 {
		parts = append(parts, current)
	}
	return parts
}

// segmentCutParams returns the parameters t in [0,1] along the segment
// a0→a1 at which it transversally crosses any segment of splitter, sorted
// ascending with near-duplicates removed.
func segmentCutParams(a0, a1 orb.Point, splitter orb.LineString) []float64 {
	var ts []float64
	da := sub(a1, a0)
	for j := 0; j+1 < len(splitter); j++ {
		b0, b1 := splitter[j], splitter[j+1]
		db := sub(b1, b0)
		div := perpDot(da, db)
		if math.Abs(div) < epsilon {
			continue // parallel or degenerate
		}
		diff := sub(a0, b0)
		ta := perpDot(db, diff) / div
		tb := perpDot(da, diff) / div
		if ta < -epsilon || ta > 1+epsilon || tb < -epsilon || tb > 1+epsilon {
			continue
		}
		ts = append(ts, clamp01(ta))
	}
	sort.Float64s(ts)
	return dedupeFloats(ts)
}

// segmentsIntersect reports whether segments a0→a1 and b0→b1 share a point,
// including endpoint touches and collinear overlaps.
func segmentsIntersect(a0, a1, b0, b1 orb.Point) bool {
	d1 := orient(b0, b1, a0)
	d2 := orient(b0, b1, a1)
	d3 := orient(a0, a1, b0)
	d4 := orient(a0, a1, b1)

	if ((d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon)) &&
		((d3 > epsilon && d4 < -epsilon) || (d3 < -epsilon && d4 > epsilon)) {
		return true
	}
	if math.Abs(d1) <= epsilon && onSegment(b0, b1, a0) {
		return true
	}
	if math.Abs(d2) <= epsilon && onSegment(b0, b1, a1) {
		return true
	}
	if math.Abs(d3) <= epsilon && onSegment(a0, a1, b0) {
		return true
	}
	if math.Abs(d4) <= epsilon && onSegment(a0, a1, b1) {
		return true
	}
	return false
}

// orient returns the signed area of the triangle (a, b, p): positive when p
// lies left of a→b, negative when right, near zero when collinear.
func orient(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// onSegment reports whether p, already known to be collinear with a→b, lies
// within the segment's bounding box.
func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0])-epsilon <= p[0] && p[0] <= math.Max(a[0], b[0])+epsilon &&
		math.Min(a[1], b[1])-epsilon <= p[1] && p[1] <= math.Max(a[1], b[1])+epsilon
}

func interpolate(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func sub(a, b orb.Point) orb.Point {
	return orb.Point{a[0] - b[0], a[1] - b[1]}
}

func perpDot(a, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func dedupeFloats(ts []float64) []float64 {
	if len(ts) < 2 {
		return ts
	}
	out := ts[:1]
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > epsilon {
			out = append(out, t)
		}
	}
	return out
}
