package service

import (
	"context"
	"testing"
	"time"

	"webnotes-be/internal/entity"
	"webnotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repairTestTopic = "EMBED_REPAIR_TEST"

func newRepairFixture(t *testing.T, f *fakeFactory, embedder *fakeEmbedder) IPublisherService {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	views := newTestViewService(f, embedder, nil, nil)
	repair := NewRepairService(pubSub, repairTestTopic, f, embedder, views, nopLogger{})
	require.NoError(t, repair.Consume(context.Background()))

	return NewPublisherService(repairTestTopic, pubSub)
}

func publishRepair(t *testing.T, pub IPublisherService, kind string, id int64) {
	t.Helper()
	payload, err := events.Marshal(events.RepairMessage{Kind: kind, Id: id, OccurredAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), payload))
}

func TestRepairNoteRecomputesEmbedding(t *testing.T) {
	f := newFakeFactory()
	stale := &entity.Note{Name: "Pasta recipes", Note: "body", EmbeddingStale: true, CreatedAt: time.Now()}
	require.NoError(t, f.uow.notes.Create(context.Background(), stale))

	embedder := &fakeEmbedder{}
	pub := newRepairFixture(t, f, embedder)

	publishRepair(t, pub, events.KindRepairNote, stale.Id)

	assert.Eventually(t, func() bool {
		all, _ := f.uow.notes.FindAll(context.Background())
		return len(all) == 1 && !all[0].EmbeddingStale && all[0].Embedding != nil
	}, 2*time.Second, 10*time.Millisecond, "note should be repaired")
}

func TestRepairContentRecomputesEmbedding(t *testing.T) {
	f := newFakeFactory()
	note := seedNote(t, f, "Pasta recipes", "")
	item := &entity.ContentItem{NoteId: note.Id, Text: "snippet", Url: "https://example.com", CreatedAt: time.Now()}
	require.NoError(t, f.uow.contents.Create(context.Background(), item))

	embedder := &fakeEmbedder{}
	pub := newRepairFixture(t, f, embedder)

	publishRepair(t, pub, events.KindRepairContent, item.Id)

	assert.Eventually(t, func() bool {
		all, _ := f.uow.contents.FindAll(context.Background())
		return len(all) == 1 && all[0].Embedding != nil
	}, 2*time.Second, 10*time.Millisecond, "content item should be repaired")
}

func TestRepairDropsRequestForDeletedRow(t *testing.T) {
	f := newFakeFactory()
	embedder := &fakeEmbedder{}
	pub := newRepairFixture(t, f, embedder)

	// Id 99 does not exist; the message must be acked and dropped without
	// an embed attempt.
	publishRepair(t, pub, events.KindRepairNote, 99)

	time.Sleep(200 * time.Millisecond)
	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	assert.Empty(t, embedder.requests)
}

func TestRepairSkipsAlreadyRepairedNote(t *testing.T) {
	f := newFakeFactory()
	healthy := &entity.Note{
		Name:      "Pasta recipes",
		Embedding: []float32{1, 0},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.uow.notes.Create(context.Background(), healthy))

	embedder := &fakeEmbedder{}
	pub := newRepairFixture(t, f, embedder)

	publishRepair(t, pub, events.KindRepairNote, healthy.Id)

	time.Sleep(200 * time.Millisecond)
	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	assert.Empty(t, embedder.requests, "a later successful save already repaired this note")
}

func TestSweepStaleRepairsSurvivingBacklog(t *testing.T) {
	// A crash loses queued repair messages with the in-process bus; the
	// sweep must rediscover stale rows from the store alone.
	f := newFakeFactory()
	staleNote := &entity.Note{Name: "Pasta recipes", EmbeddingStale: true, CreatedAt: time.Now()}
	require.NoError(t, f.uow.notes.Create(context.Background(), staleNote))
	healthyNote := &entity.Note{Name: "Trips", Embedding: []float32{1, 0}, CreatedAt: time.Now()}
	require.NoError(t, f.uow.notes.Create(context.Background(), healthyNote))

	bare := &entity.ContentItem{NoteId: staleNote.Id, Text: "snippet", Url: "https://example.com", CreatedAt: time.Now()}
	require.NoError(t, f.uow.contents.Create(context.Background(), bare))

	embedder := &fakeEmbedder{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	views := newTestViewService(f, embedder, nil, nil)
	repair := NewRepairService(pubSub, repairTestTopic, f, embedder, views, nopLogger{})
	require.NoError(t, repair.Consume(context.Background()))

	require.NoError(t, repair.SweepStale(context.Background()))

	assert.Eventually(t, func() bool {
		notes, _ := f.uow.notes.FindAll(context.Background())
		contents, _ := f.uow.contents.FindAll(context.Background())
		for _, note := range notes {
			if note.Embedding == nil || note.EmbeddingStale {
				return false
			}
		}
		for _, item := range contents {
			if item.Embedding == nil {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "sweep should repair every flagged row")

	// The healthy note never needed a model call: one for the stale note,
	// one for the bare content item.
	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	assert.Len(t, embedder.requests, 2)
}
