// Package main hosts the meeplego CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the pipeline
// services for the configured store, and renders run summaries and
// integrity reports as tables or JSON. Mutating commands take the workspace
// run lock so two rebuilds never write the same store at once.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is only surfaced here through commands and flags.
package main
