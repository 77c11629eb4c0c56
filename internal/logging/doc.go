// Package logging provides logging utilities for sunrise.
//
// Two kinds of output are kept apart:
//   - Debug logging: structured logs via slog, controlled by --verbose and
//     --log-json
//   - User output: status lines for the operator
//
//	logging.Debug("planned action", "dest", dest, "action", action)
//	logging.UserSuccess("Created %d files", n)
//
// UserInfo and UserSuccess write to stdout; UserWarning and UserError write
// to stderr. Tests redirect both with SetOutput.
package logging
