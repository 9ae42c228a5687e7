// Package pipeline sequences one build of the XPLM binding.
//
// A run is single-threaded and runs to completion:
//
//  1. validate the configuration (the SDK root must exist before any
//     discovery when generating, or when the target links natively)
//  2. in generate mode discover the headers, resolve the definition set
//     and run the parser; in prebuilt mode only check the artifact exists
//  3. plan the linkage of the target platform and write the link file
//
// The mode is decided once from the configuration. A failure in any step
// aborts the run with a diagnostic.Error.
package pipeline
