// Package ui renders human-readable command output with lipgloss styling.
//
// [Renderer] formats the CLI's plain-text views: playlist listings, analysis
// summaries, vibe profile tables, and playlist creation results. Progress
// updates emitted by the engine are drained with [Renderer.Watch] so
// long-running commands stream status lines while they work.
//
// Output goes to a caller-supplied [io.Writer]; commands in JSON mode skip
// the renderer entirely.
package ui
