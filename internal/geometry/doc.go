// Package geometry owns the planar primitives used by the intersection and
// cutting engines: line/line and line/polygon intersection predicates,
// batched point-in-polygon tests, and splitting of a polyline by another.
//
// All geometry is expressed in image-space coordinates using the types from
// github.com/paulmach/orb. Point-in-polygon follows orb/planar's ray-casting
// convention: points on the polygon boundary are reported as inside. Segment
// predicates treat touching endpoints and collinear overlaps as
// intersections. These conventions affect count parity for tracks that graze
// a section edge and must not be changed independently of each other.
//
// No package in this module computes intersection geometry outside of this
// one.
package geometry
