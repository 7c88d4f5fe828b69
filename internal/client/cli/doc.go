// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL.
// The current Session lives on App and is attached to each request that
// needs it; logout simply drops it.
//
// Commands:
//   - register: create an account (asks for the password twice)
//   - login / logout
//   - profile: show the logged-in user
//   - health: check the server
//   - exit | quit
//
// Forms are checked locally with the same rules the server applies, so
// obvious mistakes are reported without a round trip. The REPL is started
// via App.Run(ctx), which blocks until the user exits.
package cli
