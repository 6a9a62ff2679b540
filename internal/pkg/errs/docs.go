// Package errs provides the typed errors shared by the parcel tracking domain.
//
// Each error type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound) with a struct carrying the offending
// parameter and an optional cause. The struct unwraps to its sentinel, so
// callers can use errors.Is for classification and errors.As when they need
// the details. Constructors validate several fields at once and combine the
// results with errors.Join.
package errs
