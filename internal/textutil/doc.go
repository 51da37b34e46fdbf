// Package textutil provides text processing helpers for driver-name matching
// and filesystem-safe tokens.
//
// The primary use cases are:
//   - Folding driver names so "Sergio Pérez" and "sergio perez" compare equal
//   - Sanitizing free-form names into tokens for chart file names
//
// Folding decomposes text to NFD, strips combining marks, lowercases, and
// collapses runs of whitespace.
package textutil
