// Package tui holds the terminal presentation of sunrise: the bubbletea
// confirmation prompt shown before a run changes a non-empty project, and
// the lipgloss rendering of plans, summaries and listings.
//
// Rendering functions return plain strings so commands can print them and
// tests can inspect them. Nothing here reads or writes project files.
package tui
