// Package client talks to the todo HTTP API on behalf of the CLI.
//
// # Overview
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// net/http using a pooled go-cleanhttp client. The bearer token returned by
// Login is kept on the HTTPClient and sent in the Auth header of every
// later request.
//
// # Error Handling
//
// Failures are mapped to sentinel errors that callers match with errors.Is:
// ErrUnavailable for transport failures, ErrUnauthorized for 401, ErrRejected
// for 400 (wrapping the server message) and common.ErrorNotFound for 404.
package client
