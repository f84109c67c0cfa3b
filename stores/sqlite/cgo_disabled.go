//go:build !cgo

package sqlite

// CGOEnabled reports whether the mattn/go-sqlite3 driver is usable in this build.
// Without cgo it registers a stub that fails on open; tests for it are skipped.
const CGOEnabled = false
