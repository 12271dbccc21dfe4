// Package rawcorpus reads scraped honor listings and decides which entries
// are usable.
//
// Files may hold a JSON array, a JSON Lines stream, or an object wrapping
// the array under "honors". A decoding error rejects the whole file; an
// unusable entry is only skipped and counted by reason.
package rawcorpus
