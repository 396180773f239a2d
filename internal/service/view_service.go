package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"webnotes-be/internal/apperr"
	"webnotes-be/internal/entity"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/pkg/embedding"
	"webnotes-be/pkg/search"
	"webnotes-be/pkg/summarize"

	gocache "github.com/patrickmn/go-cache"
)

type SearchMode string

const (
	ModeSubstring SearchMode = "substring"
	ModeSemantic  SearchMode = "semantic"
)

const viewCacheKey = "aggregated_views"

// IViewService is the note aggregation engine: it joins notes with their
// content items and reminder into the denormalized list the UI renders, and
// answers substring and semantic searches over it.
type IViewService interface {
	GetAggregatedNotes(ctx context.Context) ([]*entity.NoteView, error)
	Search(ctx context.Context, query string, mode SearchMode) ([]*entity.NoteView, error)
	// SearchDebounced defers a semantic search until the keystroke stream
	// quiets down; superseded searches never reach apply.
	SearchDebounced(ctx context.Context, query string, mode SearchMode, apply func([]*entity.NoteView))
	Summarize(ctx context.Context, noteId int64, cfg summarize.Config) (string, error)
	// Invalidate drops the cached aggregation; every write path calls it.
	Invalidate()
}

type viewService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	summarizer        *summarize.Summarizer
	cache             *gocache.Cache
	debouncer         *search.Debouncer
	logger            logger.ILogger

	noteLimit    int
	contentLimit int

	// onSearchError receives semantic-search failures that were swallowed
	// by the fail-soft path, so callers still get a diagnosable signal.
	onSearchError func(error)
}

func NewViewService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	summarizer *summarize.Summarizer,
	log logger.ILogger,
	noteLimit int,
	contentLimit int,
	debounce time.Duration,
	onSearchError func(error),
) IViewService {
	if noteLimit <= 0 {
		noteLimit = 20
	}
	if contentLimit <= 0 {
		contentLimit = 50
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	s := &viewService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		summarizer:        summarizer,
		cache:             gocache.New(30*time.Second, time.Minute),
		debouncer:         search.NewDebouncer(debounce),
		logger:            log,
		noteLimit:         noteLimit,
		contentLimit:      contentLimit,
		onSearchError:     onSearchError,
	}
	if s.onSearchError == nil {
		s.onSearchError = func(err error) {
			log.Warn("ViewService", "semantic search degraded", map[string]interface{}{"error": err.Error()})
		}
	}
	return s
}

// GetAggregatedNotes loads all notes, content items and reminders and joins
// them by note id. Content items keep creation order. At most one reminder
// surfaces per note; duplicates and orphaned children are a storage-layer
// misconfiguration and get logged instead of silently shaping the result.
func (s *viewService) GetAggregatedNotes(ctx context.Context) ([]*entity.NoteView, error) {
	if cached, found := s.cache.Get(viewCacheKey); found {
		return cached.([]*entity.NoteView), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	contents, err := uow.ContentItemRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	reminders, err := uow.ReminderRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*entity.NoteView, 0, len(notes))
	byNoteId := make(map[int64]*entity.NoteView, len(notes))
	for _, note := range notes {
		view := &entity.NoteView{Note: note, Contents: []*entity.ContentItem{}}
		views = append(views, view)
		byNoteId[note.Id] = view
	}

	orphanedContents := 0
	for _, item := range contents {
		view, ok := byNoteId[item.NoteId]
		if !ok {
			orphanedContents++
			continue
		}
		view.Contents = append(view.Contents, item)
	}

	orphanedReminders := 0
	for _, reminder := range reminders {
		view, ok := byNoteId[reminder.NoteId]
		if !ok {
			orphanedReminders++
			continue
		}
		if view.Reminder != nil {
			// Unique index should make this impossible; surface it.
			s.logger.Warn("ViewService", "multiple reminders for note", map[string]interface{}{
				"note_id": reminder.NoteId,
			})
			if !reminder.CreatedAt.After(view.Reminder.CreatedAt) {
				continue
			}
		}
		view.Reminder = reminder
	}

	if orphanedContents > 0 || orphanedReminders > 0 {
		s.logger.Warn("ViewService", "orphaned child rows detected", map[string]interface{}{
			"content_items": orphanedContents,
			"reminders":     orphanedReminders,
		})
	}

	s.cache.Set(viewCacheKey, views, gocache.DefaultExpiration)
	return views, nil
}

func (s *viewService) Search(ctx context.Context, query string, mode SearchMode) ([]*entity.NoteView, error) {
	switch mode {
	case ModeSemantic:
		return s.searchSemantic(ctx, query)
	default:
		return s.searchSubstring(ctx, query)
	}
}

// searchSubstring filters on the note name only, case-insensitively. An
// empty or whitespace query returns the full creation-order list.
func (s *viewService) searchSubstring(ctx context.Context, query string) ([]*entity.NoteView, error) {
	views, err := s.GetAggregatedNotes(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return views, nil
	}

	needle := strings.ToLower(query)
	filtered := make([]*entity.NoteView, 0, len(views))
	for _, view := range views {
		if strings.Contains(strings.ToLower(view.Note.Name), needle) {
			filtered = append(filtered, view)
		}
	}
	return filtered, nil
}

// searchSemantic runs the two similarity searches and max-merges the hits
// per note. Embedding or index failures degrade to an empty result set; the
// view session keeps working and the error reaches the diagnostics callback.
func (s *viewService) searchSemantic(ctx context.Context, query string) ([]*entity.NoteView, error) {
	if strings.TrimSpace(query) == "" {
		// Semantic mode with nothing to embed. "Show everything" is the
		// caller's substring-mode concern, not ours.
		return []*entity.NoteView{}, nil
	}

	views, err := s.GetAggregatedNotes(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		s.onSearchError(err)
		return []*entity.NoteView{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	noteScored, err := uow.NoteRepository().SearchSimilarWithScore(ctx, result.Values, s.noteLimit)
	if err != nil {
		s.onSearchError(err)
		return []*entity.NoteView{}, nil
	}
	contentScored, err := uow.ContentItemRepository().SearchSimilarWithScore(ctx, result.Values, s.contentLimit)
	if err != nil {
		s.onSearchError(err)
		return []*entity.NoteView{}, nil
	}

	noteHits := make([]search.Hit, 0, len(noteScored))
	for _, sn := range noteScored {
		noteHits = append(noteHits, search.Hit{NoteId: sn.Note.Id, Similarity: sn.Similarity})
	}
	contentHits := make([]search.Hit, 0, len(contentScored))
	for _, sc := range contentScored {
		contentHits = append(contentHits, search.Hit{NoteId: sc.Item.NoteId, Similarity: sc.Similarity})
	}

	merged := search.MergeScores(noteHits, contentHits)

	// Walk the aggregated list (creation order) so the stable sort below
	// breaks similarity ties deterministically. Copies keep scores off the
	// shared cached views.
	matches := make([]*entity.NoteView, 0, len(merged))
	for _, view := range views {
		score, ok := merged[view.Note.Id]
		if !ok {
			continue
		}
		match := *view
		match.Similarity = score
		matches = append(matches, &match)
	}

	return search.Rank(matches), nil
}

func (s *viewService) SearchDebounced(ctx context.Context, query string, mode SearchMode, apply func([]*entity.NoteView)) {
	if mode != ModeSemantic {
		// Substring filtering is cheap; run it immediately and invalidate
		// any pending semantic run so its late result cannot apply.
		s.debouncer.Cancel()
		views, err := s.Search(ctx, query, mode)
		if err != nil {
			s.onSearchError(err)
			return
		}
		apply(views)
		return
	}

	s.debouncer.Trigger(func(seq uint64) {
		views, err := s.Search(ctx, query, mode)
		if err != nil {
			s.onSearchError(err)
			return
		}
		// A newer keystroke may have superseded us while the embedding
		// round trip was in flight. Discard, never apply.
		if !s.debouncer.Current(seq) {
			return
		}
		apply(views)
	})
}

// Summarize flattens a note view (name, body, content snippets with their
// source URLs) and hands it to the summarization adapter.
func (s *viewService) Summarize(ctx context.Context, noteId int64, cfg summarize.Config) (string, error) {
	views, err := s.GetAggregatedNotes(ctx)
	if err != nil {
		return "", err
	}

	var target *entity.NoteView
	for _, view := range views {
		if view.Note.Id == noteId {
			target = view
			break
		}
	}
	if target == nil {
		return "", apperr.NotFound("note", noteId)
	}

	var b strings.Builder
	b.WriteString(target.Note.Name)
	b.WriteString("\n\n")
	if target.Note.Note != "" {
		b.WriteString(target.Note.Note)
		b.WriteString("\n\n")
	}
	for _, item := range target.Contents {
		fmt.Fprintf(&b, "- %s (%s)\n", item.Text, item.Url)
	}

	return s.summarizer.Summarize(ctx, b.String(), cfg)
}

func (s *viewService) Invalidate() {
	s.cache.Delete(viewCacheKey)
}
