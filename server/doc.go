// Package server exposes plan execution over HTTP using Gin.
//
// Routes:
//
//	GET  /health             service and source health
//	POST /v1/query           run {plan, records, previous}; returns {data: Result}
//	POST /v1/plans/validate  validate a JSON or YAML plan; returns its fingerprint
//
// Errors are rendered from their AppError code and HTTP status. When auth is
// enabled, /v1 routes require an HS256 Bearer token.
package server
