// Package gen drives the external declaration parser and persists its
// output.
//
// One run invokes the parser exactly once. A parser failure aborts the run
// before anything is written; there is no partial or degraded artifact.
//
// Post-processing:
//   - Go artifacts are normalised with golang.org/x/tools/imports
//   - other artifacts get a "Code generated" banner as a C comment
//
// Next to the artifact the driver records an invalidation stamp: the
// configuration inputs that must force regeneration when they change (SDK
// root, epoch overrides) and a fingerprint of the flags and headers.
package gen
