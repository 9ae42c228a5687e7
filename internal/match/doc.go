// Package match finds near misses among names.
//
// It backs the "did you mean" hints for configured names, such as header
// exclusions, that match nothing in the SDK. Names are compared case
// insensitively by edit distance.
package match
