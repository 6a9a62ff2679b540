// Package services provides domain services that don't naturally belong to a
// single aggregate root.
//
// The package includes:
//   - RouteBuilder: builds a parcel route from an ordered list of strategies,
//     degrading from a provider-computed road path to straight-line interpolation
//
// Route building never leaves a parcel without a route once both ends are known.
package services
