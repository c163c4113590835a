// Package services provides domain services that work across the order and
// driver aggregates.
//
// The package includes:
//   - DistanceEstimator: great-circle distance and delivery ETA between two points
//   - CourierMatcher: the candidate search of the assignment policy
//
// Both are pure: they read aggregates and never mutate them.
package services
