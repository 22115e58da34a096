// Package acqlog provides the runtime's structured logger: a thin wrapper
// over zap.Logger that additionally fans every record out to an optional
// host-supplied callback, matching the language-neutral
// (is_error, file, line, function, message) logger callback contract in
// SPEC_FULL.md §6. Frame-drop notifications flow through this path as the
// human-readable "Dropped <N>" line external tooling greps for.
package acqlog
