// Package honor defines the honor data model shared by the parser, classifier,
// pipeline, resolver, verifier, and store backends.
//
// A Record is the unit of storage: one award outcome attached to one game. A
// Game carries its full honor collection, which the pipeline always replaces
// wholesale. RawEntry is the transient scrape shape consumed at the start of a
// run and never persisted.
package honor
