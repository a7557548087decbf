// Package storage persists the site configuration and the check history as
// JSON documents. Reads never fail: a missing or unreadable document falls
// back to a default state. Writes replace the target file atomically.
package storage
