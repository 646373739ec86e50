// Package search implements library search: a small query language parsed
// into free-text terms and field filters, executed against the library index.
//
// Free-text terms match title, artist, and album case-insensitively. Field
// filters narrow a single field:
//
//	love artist:"nina simone" format:flac
//
// An empty query returns the whole library, which is what the web player
// uses to clear a search box.
package search
