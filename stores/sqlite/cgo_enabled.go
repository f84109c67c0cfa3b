//go:build cgo

package sqlite

// CGOEnabled reports whether the mattn/go-sqlite3 driver is usable in this build.
const CGOEnabled = true
