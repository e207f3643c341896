// Package fsource implements syncer.Source over a directory on disk.
//
// Paths handed to the synchronizer are slash-separated and relative to the
// root directory, regardless of platform. Change notifications come from
// fsnotify and are translated into the synchronizer's four event kinds:
//
//	fsnotify Create            create (or the second half of a rename)
//	fsnotify Write             modify
//	fsnotify Remove            delete
//	fsnotify Rename            held for RenameWindow; paired with the next
//	                           Create into rename(new, old), or emitted as
//	                           delete if no Create arrives in time
//
// Chmod notifications are ignored. Directories are watched recursively;
// directories created after Watch starts are added as they appear.
package fsource
