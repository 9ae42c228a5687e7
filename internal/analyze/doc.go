// Package analyze inspects the Go package that consumes the binding.
//
// It uses golang.org/x/tools/go/packages to ask the go command for the
// package in the output directory, so the link file is written with the
// package clause of its neighbours.
package analyze
