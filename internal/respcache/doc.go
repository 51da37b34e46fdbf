// Package respcache provides the local, path-named on-disk cache of provider
// responses.
//
// Raw JSON bodies are stored in a SQLite database (default
// ~/.cache/qualigap/responses.db) keyed by the full request URL, so repeated
// analyses over past seasons never touch the network. A flock-based run lock
// in the same directory keeps two analyses from filling the cache at once.
//
// CLI commands for inspection and management:
//
//	qualigap cache stats   # Entry count, sizes, fetch window
//	qualigap cache clear   # Remove all cached responses
package respcache
