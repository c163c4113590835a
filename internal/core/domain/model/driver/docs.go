// Package driver provides the Driver aggregate: a courier known by an external
// identifier, its availability and its last reported position.
//
// Key business rules:
//   - one driver per external driver id; creation is idempotent at the repository level
//   - drivers start unavailable
//   - a location ping always refreshes both the position and lastLocationUpdate
//   - a driver carries at most one current order; only that order can release it
package driver
