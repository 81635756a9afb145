// Package api contains the HTTP transport layer: request and response
// models, handlers for the auth and task endpoints, and the mapping from
// internal errors to HTTP status codes and machine-readable error codes.
//
// Handlers stay thin: they decode and validate input, delegate to the
// service layer, and translate the outcome into the response envelope.
// They never talk to the store directly.
package api
