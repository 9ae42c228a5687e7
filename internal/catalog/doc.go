// Package catalog holds the X-Plane SDK API epochs and the override parser.
//
// Epochs are additive: every enabled epoch becomes a -D flag for the parser.
// XPLM200 is always enabled. An override list replaces the remaining
// defaults, it does not merge with them.
//
// Compatibility: override lists are separated by ';' only. The ':' separator
// accepted by older releases is rejected with a configuration error so that
// "XPLM400:XPLM401" can never silently resolve to something else.
package catalog
