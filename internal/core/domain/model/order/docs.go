// Package order contains the Order aggregate and its supporting value
// objects for the freight domain.
//
// The aggregate root is Order, which governs the shipment lifecycle: the
// status state machine (Status), the ordered drop sequence (DropStop),
// cargo description (Load), driver milestone signals (ProgressSignal) and
// live tracking state (TrackPoint, Timeline).
//
// Key invariants enforced here:
//   - status changes follow the transition table in status.go
//   - drop stops complete strictly in index order
//   - terminal orders accept no further mutation, except the
//     delivered-to-refunded admin flow
//   - tracking history is append-only
//
// All types use the constructor-guard pattern: create them through their
// New.../Restore... functions, never by struct literal.
package order
