// Package memory provides mutex-guarded in-memory implementations of the
// service repositories. The server uses them when no database is
// configured; data does not survive a restart.
package memory
