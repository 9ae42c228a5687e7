// Package main provides the CLI entrypoint for xplm-bindgen.
//
// xplm-bindgen is a build-time generator for the X-Plane plugin SDK binding:
//   - Discovers the SDK declaration files
//   - Selects the API epochs to enable
//   - Runs the external parser once to produce the binding artifact
//   - Emits cgo link directives on Windows and macOS
//
// It is meant to be run from a //go:generate line in the consuming package.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewCLI(os.Getenv).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	stop()
	os.Exit(exitCode(err))
}

// usageError marks errors caused by an invalid command line.
type usageError struct {
	error
}

func (e usageError) Unwrap() error {
	return e.error
}

func exitCode(err error) int {
	var ue usageError

	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		return 2
	default:
		return 1
	}
}
