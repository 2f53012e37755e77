// Package manifest records dataset snapshots in SQLite: the class
// index and per-class image counts observed at scan time. Snapshots
// back the stats API and make it possible to audit which dataset state
// a training run was fed from.
package manifest
