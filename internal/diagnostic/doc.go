// Package diagnostic provides the error taxonomy of the binding generator.
//
// There is no recoverable error anywhere in the pipeline. Each failure is
// reported once, with the offending input named:
//   - Configuration: missing or invalid environment values
//   - Discovery: unreadable SDK directories, non-text paths
//   - Generation: the external parser rejected the declarations
//   - Write: the artifact, stamp or link file could not be persisted
package diagnostic
