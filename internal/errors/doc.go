// Package errors provides typed errors with exit codes for sunrise.
//
// # Error Types
//
// SunriseError wraps an error with an exit code and a kind:
//
//	type SunriseError struct {
//	    Code    int    // Exit code
//	    Kind    error  // Sentinel identifying the failure class
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Kinds
//
// Each failure class has a sentinel so callers can branch with errors.Is:
//
//	ErrSourceUnavailable        // template bundle could not be obtained
//	ErrUnclassifiedTemplateFile // bundle file matches no category
//	ErrMissingAgentMapping      // agent profile lacks a category directory
//	ErrUnknownAgent             // agent id not in the registry
//	ErrDuplicateDestination     // two template files map to one path
//	ErrDestinationConflict      // destination exists but is not a file
//	ErrProtectedPath            // a write would touch a protected path
//	ErrBackupFailed             // snapshot of a tool-owned root failed
//	ErrPartialApply             // a write failed after mutation began
//	ErrConfirmationRequired     // operator approval needed but unavailable
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
