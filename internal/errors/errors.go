package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for sunrise
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitSourceUnavailable   = 2
	ExitTemplateError       = 3
	ExitConfigError         = 4
	ExitConfirmationNeeded  = 5
	ExitBackupFailed        = 6
	ExitPartialApply        = 7
	ExitDestinationConflict = 8
)

// Kinds.
var (
	ErrSourceUnavailable        = errors.New("source unavailable")
	ErrUnclassifiedTemplateFile = errors.New("unclassified template file")
	ErrMissingAgentMapping      = errors.New("missing agent mapping")
	ErrUnknownAgent             = errors.New("unknown agent")
	ErrDuplicateDestination     = errors.New("duplicate destination")
	ErrDestinationConflict      = errors.New("destination conflict")
	ErrProtectedPath            = errors.New("protected path")
	ErrBackupFailed             = errors.New("backup failed")
	ErrPartialApply             = errors.New("partial apply failure")
	ErrConfirmationRequired     = errors.New("confirmation required")
)

// SunriseError is the base error type for sunrise
type SunriseError struct {
	Code    int
	Kind    error
	Message string
	Cause   error
}

func (e *SunriseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SunriseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's kind.
func (e *SunriseError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// ExitCode returns the exit code for this error
func (e *SunriseError) ExitCode() int {
	return e.Code
}

// New creates a new SunriseError
func New(code int, kind error, message string) *SunriseError {
	return &SunriseError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with a SunriseError
func Wrap(code int, kind error, message string, cause error) *SunriseError {
	return &SunriseError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// SourceUnavailable returns an error for a template bundle that cannot be read or fetched
func SourceUnavailable(location string, cause error) *SunriseError {
	return Wrap(ExitSourceUnavailable, ErrSourceUnavailable,
		fmt.Sprintf("template source unavailable: %s", location), cause)
}

// UnclassifiedTemplateFile returns an error for a bundle file that matches no category
func UnclassifiedTemplateFile(path string) *SunriseError {
	return New(ExitTemplateError, ErrUnclassifiedTemplateFile,
		fmt.Sprintf("unclassified template file: %s", path))
}

// InvalidTemplateFile returns an error for a bundle file with unusable content
func InvalidTemplateFile(path string, cause error) *SunriseError {
	return Wrap(ExitTemplateError, ErrUnclassifiedTemplateFile,
		fmt.Sprintf("invalid template file: %s", path), cause)
}

// MissingAgentMapping returns an error for an agent profile without a directory for a category
func MissingAgentMapping(agentID, category string) *SunriseError {
	return New(ExitConfigError, ErrMissingAgentMapping,
		fmt.Sprintf("agent %q has no directory for category %q", agentID, category))
}

// UnknownAgent returns an error for an agent id that is not registered
func UnknownAgent(agentID string, available []string) *SunriseError {
	msg := fmt.Sprintf("unknown agent %q", agentID)
	if len(available) > 0 {
		msg += "; available: " + strings.Join(available, ", ")
	}
	return New(ExitConfigError, ErrUnknownAgent, msg)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *SunriseError {
	return Wrap(ExitConfigError, nil, message, cause)
}

// DuplicateDestination returns an error for two template files sharing a destination
func DuplicateDestination(dest, first, second string) *SunriseError {
	return New(ExitTemplateError, ErrDuplicateDestination,
		fmt.Sprintf("%s and %s both map to %s", first, second, dest))
}

// DestinationConflict returns an error for a destination that exists but cannot be written as a file
func DestinationConflict(dest, reason string) *SunriseError {
	return New(ExitDestinationConflict, ErrDestinationConflict,
		fmt.Sprintf("cannot write %s: %s", dest, reason))
}

// ProtectedPath returns an error for a write that targets a protected path
func ProtectedPath(dest string) *SunriseError {
	return New(ExitDestinationConflict, ErrProtectedPath,
		fmt.Sprintf("refusing to write protected path %s", dest))
}

// BackupFailed returns an error for a snapshot that could not be completed
func BackupFailed(root string, cause error) *SunriseError {
	return Wrap(ExitBackupFailed, ErrBackupFailed,
		fmt.Sprintf("backup of %s failed", root), cause)
}

// PartialApply returns an error for a write failure after mutation began
func PartialApply(dest string, cause error) *SunriseError {
	return Wrap(ExitPartialApply, ErrPartialApply,
		fmt.Sprintf("writing %s failed", dest), cause)
}

// ConfirmationRequired returns an error for a run that needs approval the caller cannot obtain
func ConfirmationRequired(message string) *SunriseError {
	return New(ExitConfirmationNeeded, ErrConfirmationRequired, message)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var sunriseErr *SunriseError
	if errors.As(err, &sunriseErr) {
		return sunriseErr.ExitCode()
	}
	return ExitGeneralError
}
