// Package cli provides the interactive WellNoosh command-line client.
//
// It wires configuration, the local preference store, the identity provider,
// and an interactive REPL that mirrors the app's two navigation stacks:
// signed-out commands (signup, login, google) and signed-in commands
// (onboarding, profile, logout, clear-data).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
