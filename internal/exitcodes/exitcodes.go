// Package exitcodes defines the process exit codes used by the ui-lab CLI.
package exitcodes

import "github.com/company/ui-lab/internal/installer"

const (
	Success        = 0
	InternalError  = 1
	UsageError     = 2
	ConfigError    = 3
	NotFound       = 4
	Conflict       = 5
	IOError        = 6
	PackageManager = 7
	Interrupted    = 130
)

// ForKind maps an installer failure kind to its exit code.
func ForKind(kind installer.Kind) int {
	switch kind {
	case installer.KindInvalidOptions, installer.KindNoComponentsSpecified, installer.KindUnknownPreset:
		return UsageError
	case installer.KindAlreadyInitialized, installer.KindNotInitialized, installer.KindConfigWriteFailure:
		return ConfigError
	case installer.KindInvalidComponents, installer.KindNoPackageManifest:
		return NotFound
	case installer.KindDependencyConflict:
		return Conflict
	case installer.KindFileWriteFailure:
		return IOError
	case installer.KindPackageInstallFailure:
		return PackageManager
	case installer.KindCancelled:
		return Interrupted
	default:
		return InternalError
	}
}
