package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/company/ui-lab/internal/resolver"
)

// Kind is a machine-readable failure category.
type Kind string

const (
	KindAlreadyInitialized    Kind = "ALREADY_INITIALIZED"
	KindNoPackageManifest     Kind = "NO_PACKAGE_MANIFEST"
	KindUnknownPreset         Kind = "UNKNOWN_PRESET"
	KindInvalidOptions        Kind = "INVALID_OPTIONS"
	KindNotInitialized        Kind = "NOT_INITIALIZED"
	KindInvalidComponents     Kind = "INVALID_COMPONENTS"
	KindNoComponentsSpecified Kind = "NO_COMPONENTS_SPECIFIED"
	KindDependencyConflict    Kind = "DEPENDENCY_CONFLICT"
	KindFileWriteFailure      Kind = "FILE_WRITE_FAILURE"
	KindConfigWriteFailure    Kind = "CONFIG_WRITE_FAILURE"
	KindPackageInstallFailure Kind = "PACKAGE_INSTALL_FAILURE"
	KindCancelled             Kind = "CANCELLED"
	KindInternal              Kind = "INTERNAL"
)

// Error is the structured failure returned by Init and InstallComponents.
type Error struct {
	Kind    Kind
	Message string
	// Components holds the offending ids for KindInvalidComponents.
	Components []string
	// Suggestions maps an invalid id to close registered ids.
	Suggestions map[string][]string
	// Conflicts holds the details for KindDependencyConflict.
	Conflicts []resolver.Conflict
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Details returns extra lines worth showing under the message.
func (e *Error) Details() []string {
	var lines []string
	for _, id := range e.Components {
		if s := e.Suggestions[id]; len(s) > 0 {
			lines = append(lines, fmt.Sprintf("%s: did you mean %s?", id, strings.Join(s, ", ")))
		}
	}
	for _, c := range e.Conflicts {
		lines = append(lines, c.String())
	}
	return lines
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
