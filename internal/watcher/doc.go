// Package watcher turns metadata file arrivals into workflow runs.
//
// A session first scans the directory for metadata files already present,
// then observes it with fsnotify. Only create and write events for the
// configured file name trigger; a size-stability window guards against
// reacting to partially written files. Run failures are logged and the
// session continues, so one bad drop does not take the watcher down.
package watcher
