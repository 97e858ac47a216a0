// Package types holds the context keys shared by the command tree.
package types

type contextKey string

// ClientAppKey carries the wired *client.App through the command context.
const ClientAppKey contextKey = "client-app"
