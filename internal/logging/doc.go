// Package logging provides opt-in file-based logging with rotation for deploycheck.
// With --debug, every check item is logged as structured JSON to ~/.deploycheck/logs/
// so a failed pipeline step can be diagnosed after the fact; --log-file picks
// another path and logs at the configured level.
//
// Without either flag nothing is logged and stdout carries only the report.
package logging
