package search

import (
	"sort"

	"webnotes-be/internal/entity"
)

// Hit is one similarity-search result attributed to a note: either the
// note's own embedding matched, or one of its content items did.
type Hit struct {
	NoteId     int64
	Similarity float64
}

// MergeScores folds note-level and content-level hits into one score per
// note. Per note the MAXIMUM similarity wins: a note is relevant if any of
// its attached content is relevant, not on average.
func MergeScores(noteHits []Hit, contentHits []Hit) map[int64]float64 {
	merged := make(map[int64]float64, len(noteHits))

	for _, hit := range noteHits {
		if existing, ok := merged[hit.NoteId]; !ok || hit.Similarity > existing {
			merged[hit.NoteId] = hit.Similarity
		}
	}
	for _, hit := range contentHits {
		if existing, ok := merged[hit.NoteId]; !ok || hit.Similarity > existing {
			merged[hit.NoteId] = hit.Similarity
		}
	}

	return merged
}

// Rank sorts views descending by similarity. The sort is stable, so callers
// passing views in creation order get a deterministic creation-order
// tie-break.
func Rank(views []*entity.NoteView) []*entity.NoteView {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Similarity > views[j].Similarity
	})
	return views
}
