// Package source reads records for plan execution from files and SQLite.
//
// Every reader returns records as []map[string]any. JSON numbers decode to
// float64; SQLite integers stay int64 and text or blob columns become strings.
package source
