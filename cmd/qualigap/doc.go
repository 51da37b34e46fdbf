// Package main hosts the qualigap CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the qualifying-gap analysis, inspects and
// clears the response cache, and scaffolds configuration. It centralizes
// configuration resolution and logging setup so subcommands can focus on
// output instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
