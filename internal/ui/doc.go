// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger translates git query lifecycle events into short
// sentences when the console log format is selected, while structured
// telemetry keeps flowing through the diagnostic logger.
package ui
