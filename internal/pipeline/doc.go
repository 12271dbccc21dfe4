// Package pipeline turns raw honor listings into per-game honor collections.
//
// A run parses and classifies every usable entry, builds one record per
// named game, groups records by game, and then, per game on a bounded worker
// pool, fetches the stored collection, merges the fresh records into it,
// resolves duplicates, and writes the result back when it changed. Failures
// of one game are collected into the run summary and never stop the others.
// Verification over the whole corpus runs only after every game finished.
package pipeline
