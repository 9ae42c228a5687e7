// Package config resolves the run configuration of the generator.
//
// Values come from three layers, highest priority first:
//  1. command-line flags
//  2. environment (XPLANE_SDK, XPLANE_SDK_VERSIONS, ...)
//  3. an optional YAML file named by XPLANE_SDK_CONFIG or --config
//
// The environment is read exactly once; components receive the resolved
// Config and never consult the environment themselves.
//
// # File schema
//
//	version: "1"
//	sdk: ../SDK                 # relative to the file
//	versions: [XPLM400, XPLM401] # or "XPLM400;XPLM401"
//	generate: true
//	output:
//	  dir: ./xplm
//	  package: xplm
//	  artifact: xplm_bindings.h
//	parser:
//	  command: clang
//	  args: [-E, -P]
//	toolchain:
//	  dialect: -xc
//	  comment_mode: -fparse-all-comments
//	  platform_stub: -DLIN=1
//	headers:
//	  exclude: [XPLMCamera.h]
package config
