// Package cli implements the recq command line: running plans against files
// or SQLite, validating plan documents, serving the HTTP API and issuing
// API tokens.
package cli
