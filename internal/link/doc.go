// Package link plans the native linkage of the XPLM binding.
//
// The plan is a total function of the target platform:
//   - Windows: import libraries XPLM_64 and XPWidgets_64 from Libraries/Win
//   - macOS: frameworks XPLM and XPWidgets from Libraries/Mac
//   - anything else: nothing, the host process provides the symbols
//
// Non-empty plans are emitted as a GOOS-constrained Go file carrying
// "#cgo LDFLAGS" directives next to the generated artifact.
package link
