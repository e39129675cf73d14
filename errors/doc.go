// Package errors provides the structured error type shared by recq packages.
// Every error carries a machine-readable code, an HTTP status mapping, and
// retryable detection following RFC 7807.
package errors
