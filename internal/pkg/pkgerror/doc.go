// Package pkgerror defines the structured error type shared by all modules.
//
// Errors carry a high-level type (server, business, validation), a stable
// code, and optionally a user-facing message. Inbound layers map them to
// HTTP responses without inspecting module internals.
package pkgerror
