// Package driving declares what the CLI, TUI, web and MCP adapters call:
// asking a question and managing settings.
package driving
