// Package library implements the music library: the track model, audio tag
// extraction, directory scanning, filesystem watching, and scheduled rescans.
//
// A scan walks the music directory recursively, extracts metadata from every
// supported audio file, and produces the track list that the storage layer
// indexes. Unreadable files are logged and skipped; a missing music directory
// yields an empty library rather than an error.
//
// Tag extraction results are cached in an expirable LRU keyed by path, mtime,
// and size, so repeated scans only pay for files that changed.
package library
