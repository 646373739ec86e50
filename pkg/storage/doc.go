// Package storage implements the library index: the persistent record of
// every scanned track, with lookup, pagination, and search.
//
// Two implementations are provided. SQLiteStore is the production index, a
// single-file database that survives restarts so the add-on serves its
// library immediately while the first rescan runs. MemoryStore backs tests
// and ephemeral setups.
//
// A scan replaces the whole index atomically (ReplaceLibrary), mirroring how
// the scanner produces a complete view of the music directory each pass.
package storage
