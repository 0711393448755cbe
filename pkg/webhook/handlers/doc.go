// Package handlers implements the admission control logic for CoreDB
// resources.
//
// It contains implementations of the controller-runtime CustomDefaulter and
// CustomValidator interfaces:
//
//  1. Mutation (CoreDBDefaulter): intercepts CREATE and UPDATE requests and
//     applies the same static defaults the reconciler applies at entry, so
//     defaults applied at admission time are identical to those used during
//     operation.
//
//  2. Validation (CoreDBValidator): enforces semantic rules that cannot be
//     expressed in OpenAPI schemas or CEL, most importantly comparisons
//     against the old object state such as rejecting storage shrink.
package handlers
