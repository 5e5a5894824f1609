// Package store owns claim durability. The reconciliation engine talks
// to it only through the bulk operations; uniqueness of the claim_id
// business key is enforced by the database, not here.
package store

import "errors"

// ErrNotFound is returned when a requested claim does not exist.
var ErrNotFound = errors.New("claim not found")

// DefaultBatchSize bounds how many rows one bulk statement carries.
const DefaultBatchSize = 500
