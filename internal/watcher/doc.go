// Package watcher flags dataset drift: it watches a dataset root with
// fsnotify and marks the dataset dirty when files or class directories
// change underneath a resolved file list.
package watcher
