package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// RelativeOffset selects a point within a detection's bounding box as that
// detection's position for geometry tests. Both components are fractions of
// the box dimensions: {0, 0} is the top-left corner, {0.5, 1} the
// bottom-centre.
type RelativeOffset struct {
	X float64
	Y float64
}

// Validate returns an error unless both components are within [0, 1].
func (o RelativeOffset) Validate() error {
	if o.X < 0 || o.X > 1 {
		return fmt.Errorf("relative offset x must be in [0,1], got %v", o.X)
	}
	if o.Y < 0 || o.Y > 1 {
		return fmt.Errorf("relative offset y must be in [0,1], got %v", o.Y)
	}
	return nil
}

// DirectionVector is the displacement between the two detection positions
// bounding an event, denoting the road user's direction of travel.
type DirectionVector struct {
	X float64
	Y float64
}

// Direction returns the direction vector pointing from one point to another.
func Direction(from, to orb.Point) DirectionVector {
	return DirectionVector{X: to[0] - from[0], Y: to[1] - from[1]}
}

// Magnitude returns the Euclidean length of the vector.
func (v DirectionVector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}
