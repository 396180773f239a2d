package entity

// NoteView is the denormalized shape the UI works with: a note joined with
// its content items (creation order) and its reminder, if any.
type NoteView struct {
	Note     *Note
	Contents []*ContentItem
	Reminder *Reminder

	// Similarity is only meaningful on semantic search results. It is the
	// best score observed for the note across the note-level and
	// content-level searches.
	Similarity float64
}
