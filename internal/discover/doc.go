// Package discover enumerates the declaration files of an X-Plane SDK.
//
// Subsystem directories are visited in a fixed priority order and each is
// listed non-recursively and sorted, so the manifest handed to the parser
// is identical across machines and runs.
package discover
