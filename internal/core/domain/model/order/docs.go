// Package order holds the Order aggregate and its status state machine.
//
// Key business rules:
//   - orders are created pending, with a random 4-digit delivery code that never changes
//   - status follows pending -> confirmed -> prepared -> picked_up -> delivered,
//     and cancelled is reachable from every non-terminal status
//   - reaching delivered requires the exact delivery code and records deliveredAt
//   - the first courier to claim an order keeps it; another courier gets ErrAlreadyAssigned
//
// Transition validates everything before mutating, so a rejected call never
// leaves a partially updated order.
package order
