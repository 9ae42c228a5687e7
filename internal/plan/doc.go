// Package plan resolves the definition set handed to the parser.
//
// Resolution is a pure function of:
//  1. the fixed toolchain flags (dialect, comment mode, platform stub)
//  2. the enabled API epochs
//  3. the header manifest (one include dir per subsystem)
//
// The same inputs always give the same flag sequence; the parser reports
// macro redefinitions in flag order.
package plan
