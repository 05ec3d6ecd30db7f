// Package cli is the terminal front end of the merchant dashboard.
//
// It wires configuration, the local session store, the auth client and the
// canister connection into a dashboard.Controller, and drives the dashboard
// page from a small REPL. Every command maps to a page action (a click or an
// input value); the page is rendered after each command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// a shutdown signal arrives.
package cli
