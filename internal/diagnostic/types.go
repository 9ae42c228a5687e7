package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"xplm-bindgen/internal/common"
)

// Kind classifies a pipeline failure. Every kind is fatal.
type Kind int

const (
	// KindConfiguration is a missing or invalid required environment value.
	KindConfiguration Kind = iota
	// KindDiscovery is an unreadable declaration directory or a non-text path.
	KindDiscovery
	// KindGeneration is a failure reported by the external parser.
	KindGeneration
	// KindWrite is a failure to persist the artifact, the stamp or the link file.
	KindWrite
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindDiscovery:
		return "discovery error"
	case KindGeneration:
		return "generation error"
	case KindWrite:
		return "write error"
	default:
		return common.UnknownStr
	}
}

// Error is a build failure. Subject names the offending input: a path,
// an environment key or the parser command.
type Error struct {
	Kind    Kind
	Subject string
	Message string
	// Detail carries raw tool output, printed verbatim after the message.
	Detail string
	Err    error
}

// Error returns a formatted message of the form
// "<kind>: <subject>: <message>: <cause>".
func (e *Error) Error() string {
	parts := []string{e.Kind.String()}
	if e.Subject != "" {
		parts = append(parts, e.Subject)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	msg := strings.Join(parts, ": ")
	if d := strings.TrimSpace(e.Detail); d != "" {
		msg += "\n" + d
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration returns a KindConfiguration error for the given key.
func Configuration(key, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Subject: key, Message: fmt.Sprintf(format, args...)}
}

// Discovery returns a KindDiscovery error for the given path.
func Discovery(path string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindDiscovery, Subject: path, Message: fmt.Sprintf(format, args...), Err: err}
}

// Generation returns a KindGeneration error carrying the raw parser diagnostic.
func Generation(command string, err error, detail string) *Error {
	return &Error{Kind: KindGeneration, Subject: command, Message: "parser failed", Detail: detail, Err: err}
}

// Write returns a KindWrite error for the given path.
func Write(path string, err error) *Error {
	return &Error{Kind: KindWrite, Subject: path, Message: "cannot write", Err: err}
}

// IsKind reports whether err wraps a diagnostic Error of kind k.
func IsKind(err error, k Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == k
	}

	return false
}
