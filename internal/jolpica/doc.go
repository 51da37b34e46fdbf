// Package jolpica provides the minimal client for the Jolpica-F1 API, the
// community-maintained successor of the Ergast motorsport statistics API.
//
// It exposes season schedules and per-round qualifying classifications as
// typed values, parses provider lap-time strings, retries throttled requests
// with exponential backoff (honouring Retry-After), and reads through an
// optional response cache. Options allow tests to supply custom HTTP clients,
// caches, and backoff without modifying production code.
package jolpica
