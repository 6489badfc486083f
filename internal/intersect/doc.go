// Package intersect owns the intersection strategies that turn a
// (track, section) pair into zero or more crossing events, the scene
// boundary detector, and the per-track driver used by the execution
// strategies.
//
// Three strategies exist: SmallestSegments and SplittingLine for line
// sections, AreaPoints for areas. SmallestSegments and SplittingLine are
// numerically distinct and can disagree when a track touches a section line
// exactly at a shared endpoint; both remain selectable (see
// StrategySelector) until domain owners settle which one is authoritative
// for production counting.
package intersect
