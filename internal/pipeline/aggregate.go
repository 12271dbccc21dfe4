package pipeline

import (
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// GameBatch holds the fresh records for one game in corpus order.
type GameBatch struct {
	ID      int64
	Name    string
	Records []honor.Record
}

// Group collects built records by game, keeping first-seen game order.
func Group(built []Built) []GameBatch {
	index := make(map[int64]int)
	var batches []GameBatch
	for _, b := range built {
		idx, ok := index[b.GameID]
		if !ok {
			idx = len(batches)
			index[b.GameID] = idx
			batches = append(batches, GameBatch{ID: b.GameID, Name: b.GameName})
		}
		if batches[idx].Name == "" {
			batches[idx].Name = b.GameName
		}
		batches[idx].Records = append(batches[idx].Records, b.Record)
	}
	return batches
}

type mergeKey struct {
	key  honor.Key
	name string
}

// keyOf returns the merge identity. Records without an honor id also match
// on name so unrelated id-less honors of one award year stay apart.
func keyOf(rec honor.Record) mergeKey {
	k := mergeKey{key: rec.Key()}
	if k.key.HonorID == "" {
		k.name = strings.TrimSpace(rec.Name)
	}
	return k
}

// Merge folds incoming into existing. An incoming record whose key matches
// an existing one replaces the first stored record with that key, keeping the
// stored created_at and a true validated flag; later stored records with the
// same key are dropped so stale duplicates cannot outrank fresh data. Other
// records are appended. When incoming repeats a key, the higher-ranked
// category wins. The result is never re-sorted and existing is not modified.
func Merge(existing, incoming []honor.Record) []honor.Record {
	out := make([]honor.Record, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	index := make(map[mergeKey]int, len(out)+len(incoming))
	stale := make(map[mergeKey][]int)
	for i, rec := range out {
		k := keyOf(rec)
		if _, ok := index[k]; !ok {
			index[k] = i
			continue
		}
		stale[k] = append(stale[k], i)
	}

	fresh := make(map[int]bool, len(incoming))
	drop := make(map[int]bool)
	for _, rec := range incoming {
		k := keyOf(rec)
		if idx, ok := index[k]; ok {
			prev := out[idx]
			if fresh[idx] {
				if rec.Category.Outranks(prev.Category) {
					rec.CreatedAt = prev.CreatedAt
					rec.Validated = rec.Validated || prev.Validated
					out[idx] = rec
				}
				continue
			}
			fresh[idx] = true
			if !prev.CreatedAt.IsZero() {
				rec.CreatedAt = prev.CreatedAt
			}
			rec.Validated = rec.Validated || prev.Validated
			for _, dup := range stale[k] {
				rec.Validated = rec.Validated || out[dup].Validated
				drop[dup] = true
			}
			out[idx] = rec
			continue
		}
		index[k] = len(out)
		fresh[len(out)] = true
		out = append(out, rec)
	}

	if len(drop) > 0 {
		kept := out[:0]
		for i, rec := range out {
			if !drop[i] {
				kept = append(kept, rec)
			}
		}
		out = kept
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
