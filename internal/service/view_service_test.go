package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"webnotes-be/internal/apperr"
	"webnotes-be/internal/entity"
	"webnotes-be/internal/repository/contract"
	"webnotes-be/pkg/embedding"
	"webnotes-be/pkg/summarize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingLLM struct {
	prompts []string
}

func (c *capturingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return "the summary", nil
}

func newTestViewService(f *fakeFactory, embedder embedding.Provider, llm *capturingLLM, onErr func(error)) IViewService {
	var summarizer *summarize.Summarizer
	if llm != nil {
		summarizer = summarize.New(llm)
	} else {
		summarizer = summarize.New(&capturingLLM{})
	}
	return NewViewService(f, embedder, summarizer, nopLogger{}, 20, 50, 10*time.Millisecond, onErr)
}

func seedNote(t *testing.T, f *fakeFactory, name, body string) *entity.Note {
	t.Helper()
	note := &entity.Note{Name: name, Note: body, CreatedAt: time.Now()}
	require.NoError(t, f.uow.notes.Create(context.Background(), note))
	return note
}

func seedContent(t *testing.T, f *fakeFactory, noteId int64, text, url string) *entity.ContentItem {
	t.Helper()
	item := &entity.ContentItem{NoteId: noteId, Text: text, Url: url, CreatedAt: time.Now()}
	require.NoError(t, f.uow.contents.Create(context.Background(), item))
	return item
}

func TestGetAggregatedNotesJoinsChildren(t *testing.T) {
	f := newFakeFactory()
	pasta := seedNote(t, f, "Pasta recipes", "favorite dishes")
	trips := seedNote(t, f, "Trip ideas", "")

	first := seedContent(t, f, pasta.Id, "carbonara snippet", "https://example.com/a")
	second := seedContent(t, f, pasta.Id, "amatriciana snippet", "https://example.com/b")

	reminder := &entity.Reminder{NoteId: trips.Id, RemindAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.uow.reminders.Upsert(context.Background(), reminder))

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	views, err := svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Creation order.
	assert.Equal(t, pasta.Id, views[0].Note.Id)
	assert.Equal(t, trips.Id, views[1].Note.Id)

	require.Len(t, views[0].Contents, 2)
	assert.Equal(t, first.Id, views[0].Contents[0].Id)
	assert.Equal(t, second.Id, views[0].Contents[1].Id)
	assert.Nil(t, views[0].Reminder)

	assert.Empty(t, views[1].Contents)
	require.NotNil(t, views[1].Reminder)
	assert.Equal(t, trips.Id, views[1].Reminder.NoteId)
}

func TestGetAggregatedNotesSkipsOrphanedChildren(t *testing.T) {
	f := newFakeFactory()
	note := seedNote(t, f, "Solo note", "")
	seedContent(t, f, 999, "orphan snippet", "https://example.com/x")

	orphanReminder := &entity.Reminder{NoteId: 888, RemindAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.uow.reminders.Upsert(context.Background(), orphanReminder))

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	views, err := svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, note.Id, views[0].Note.Id)
	assert.Empty(t, views[0].Contents)
	assert.Nil(t, views[0].Reminder)
}

func TestGetAggregatedNotesCachesUntilInvalidated(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Cached note", "")

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	_, err := svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	_, err = svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.uow.notes.findAllCalls, "second read must come from cache")

	svc.Invalidate()
	_, err = svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.uow.notes.findAllCalls)
}

func TestSubstringSearch(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "dinner")
	seedNote(t, f, "Trip ideas", "pasta is mentioned in the body only")

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{name: "empty query returns everything", query: "", wantNames: []string{"Pasta recipes", "Trip ideas"}},
		{name: "whitespace query returns everything", query: "   ", wantNames: []string{"Pasta recipes", "Trip ideas"}},
		{name: "case insensitive name match", query: "pAsTa", wantNames: []string{"Pasta recipes"}},
		{name: "name only, body matches are ignored", query: "mentioned", wantNames: []string{}},
		{name: "no match", query: "zzz", wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.Search(context.Background(), tt.query, ModeSubstring)
			require.NoError(t, err)

			names := make([]string, 0, len(views))
			for _, view := range views {
				names = append(names, view.Note.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestSemanticSearchEmptyQueryReturnsNothing(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "")

	embedder := &fakeEmbedder{}
	svc := newTestViewService(f, embedder, nil, nil)

	views, err := svc.Search(context.Background(), "  ", ModeSemantic)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Empty(t, embedder.requests, "no embed call for empty query")
}

func TestSemanticSearchUsesQueryTask(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "")

	embedder := &fakeEmbedder{}
	svc := newTestViewService(f, embedder, nil, nil)

	_, err := svc.Search(context.Background(), "dinner ideas", ModeSemantic)
	require.NoError(t, err)

	require.Len(t, embedder.taskType, 1)
	assert.Equal(t, embedding.TaskQuery, embedder.taskType[0])
}

func TestSemanticSearchFailSoftOnEmbedError(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "")

	var reported error
	embedder := &fakeEmbedder{err: apperr.ModelUnavailable(errors.New("ollama down"))}
	svc := newTestViewService(f, embedder, nil, func(err error) { reported = err })

	views, err := svc.Search(context.Background(), "dinner", ModeSemantic)
	require.NoError(t, err, "embed failure must not surface as a search error")
	assert.Empty(t, views)
	assert.ErrorIs(t, reported, apperr.ErrModelUnavailable)
}

func TestSemanticSearchFailSoftOnStoreError(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "")
	f.uow.notes.searchErr = apperr.StoreUnavailable(errors.New("connection refused"))

	var reported error
	svc := newTestViewService(f, &fakeEmbedder{}, nil, func(err error) { reported = err })

	views, err := svc.Search(context.Background(), "dinner", ModeSemantic)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.ErrorIs(t, reported, apperr.ErrStoreUnavailable)
}

func TestSemanticSearchMergesMaxAndRanks(t *testing.T) {
	f := newFakeFactory()
	pasta := seedNote(t, f, "Pasta recipes", "")
	trips := seedNote(t, f, "Trip ideas", "")
	item := seedContent(t, f, pasta.Id, "carbonara with guanciale", "https://example.com/a")

	// Note-level search: the pasta note itself barely matches, the trips
	// note is mediocre. Content-level: pasta's snippet matches strongly.
	f.uow.notes.scored = []*contract.ScoredNote{
		{Note: &entity.Note{Id: trips.Id}, Similarity: 0.6},
		{Note: &entity.Note{Id: pasta.Id}, Similarity: 0.4},
	}
	f.uow.contents.scored = []*contract.ScoredContentItem{
		{Item: &entity.ContentItem{Id: item.Id, NoteId: pasta.Id}, Similarity: 0.9},
	}

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	views, err := svc.Search(context.Background(), "carbonara", ModeSemantic)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Max-merge: pasta's best evidence (0.9 content hit) beats trips' 0.6.
	assert.Equal(t, pasta.Id, views[0].Note.Id)
	assert.InDelta(t, 0.9, views[0].Similarity, 1e-9)
	assert.Equal(t, trips.Id, views[1].Note.Id)
	assert.InDelta(t, 0.6, views[1].Similarity, 1e-9)

	// The aggregated view carries its contents into the result.
	require.Len(t, views[0].Contents, 1)
	assert.Equal(t, item.Id, views[0].Contents[0].Id)
}

func TestSemanticSearchDoesNotMutateCachedViews(t *testing.T) {
	f := newFakeFactory()
	pasta := seedNote(t, f, "Pasta recipes", "")
	f.uow.notes.scored = []*contract.ScoredNote{
		{Note: &entity.Note{Id: pasta.Id}, Similarity: 0.8},
	}

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	_, err := svc.Search(context.Background(), "pasta", ModeSemantic)
	require.NoError(t, err)

	views, err := svc.GetAggregatedNotes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, views[0].Similarity, "scores must not leak into the cached aggregation")
}

func TestSemanticSearchExcludesUnmatchedNotes(t *testing.T) {
	f := newFakeFactory()
	pasta := seedNote(t, f, "Pasta recipes", "")
	seedNote(t, f, "Unrelated note", "")

	f.uow.notes.scored = []*contract.ScoredNote{
		{Note: &entity.Note{Id: pasta.Id}, Similarity: 0.7},
	}

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	views, err := svc.Search(context.Background(), "pasta", ModeSemantic)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, pasta.Id, views[0].Note.Id)
}

func TestSearchDebouncedOnlyAppliesLatest(t *testing.T) {
	f := newFakeFactory()
	seedNote(t, f, "Pasta recipes", "")

	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	applied := make(chan int, 4)
	svc.SearchDebounced(context.Background(), "p", ModeSemantic, func(views []*entity.NoteView) {
		applied <- 1
	})
	svc.SearchDebounced(context.Background(), "pa", ModeSemantic, func(views []*entity.NoteView) {
		applied <- 2
	})

	select {
	case got := <-applied:
		assert.Equal(t, 2, got, "only the latest query may apply")
	case <-time.After(time.Second):
		t.Fatal("debounced search never applied")
	}

	select {
	case got := <-applied:
		t.Fatalf("superseded search %d applied", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSummarizeFlattensNoteView(t *testing.T) {
	f := newFakeFactory()
	pasta := seedNote(t, f, "Pasta recipes", "favorite dishes to try")
	seedContent(t, f, pasta.Id, "carbonara needs guanciale", "https://example.com/carbonara")

	llm := &capturingLLM{}
	svc := newTestViewService(f, &fakeEmbedder{}, llm, nil)

	summary, err := svc.Summarize(context.Background(), pasta.Id, summarize.Config{})
	require.NoError(t, err)
	assert.Equal(t, "the summary", summary)

	require.NotEmpty(t, llm.prompts)
	prompt := llm.prompts[len(llm.prompts)-1]
	assert.Contains(t, prompt, "Pasta recipes")
	assert.Contains(t, prompt, "favorite dishes to try")
	assert.Contains(t, prompt, "carbonara needs guanciale")
	assert.Contains(t, prompt, "https://example.com/carbonara")
}

func TestSummarizeUnknownNote(t *testing.T) {
	f := newFakeFactory()
	svc := newTestViewService(f, &fakeEmbedder{}, nil, nil)

	_, err := svc.Summarize(context.Background(), 42, summarize.Config{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
