package service

import (
	"context"
	"encoding/json"
	"time"

	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/specification"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/pkg/embedding"
	"webnotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IRepairService consumes embedding repair requests: rows whose text was
// saved while the embedding model was unavailable get their vectors
// recomputed here.
type IRepairService interface {
	Consume(ctx context.Context) error
	SweepStale(ctx context.Context) error
}

type repairService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	views             IViewService
	logger            logger.ILogger
}

func NewRepairService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	views IViewService,
	log logger.ILogger,
) IRepairService {
	return &repairService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		views:             views,
		logger:            log,
	}
}

func (rs *repairService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// SweepStale re-enqueues repair work for every row still carrying a stale or
// missing embedding. The in-process bus is not durable, so requests queued
// before a crash are gone; this scan at boot picks up where they left off.
func (rs *repairService) SweepStale(ctx context.Context) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx, specification.NeedsEmbedding{})
	if err != nil {
		return err
	}
	for _, note := range notes {
		rs.enqueue(events.KindRepairNote, note.Id)
	}

	items, err := uow.ContentItemRepository().FindAll(ctx, specification.MissingEmbedding{})
	if err != nil {
		return err
	}
	for _, item := range items {
		rs.enqueue(events.KindRepairContent, item.Id)
	}

	if len(notes)+len(items) > 0 {
		rs.logger.Info("RepairService", "queued repairs from startup sweep", map[string]interface{}{
			"notes":    len(notes),
			"contents": len(items),
		})
	}
	return nil
}

func (rs *repairService) enqueue(kind string, id int64) {
	payload, err := events.Marshal(events.RepairMessage{
		Kind:       kind,
		Id:         id,
		OccurredAt: time.Now(),
	})
	if err != nil {
		rs.logger.Error("RepairService", "failed to marshal sweep request", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := rs.pubSub.Publish(rs.topicName, msg); err != nil {
		rs.logger.Error("RepairService", "failed to publish sweep request", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
	}
}

func (rs *repairService) processMessage(ctx context.Context, msg *message.Message) {
	var payload events.RepairMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		rs.logger.Error("RepairService", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages must not retry forever
		return
	}
	if err := payload.Validate(); err != nil {
		rs.logger.Error("RepairService", "rejecting invalid repair request", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	var err error
	switch payload.Kind {
	case events.KindRepairNote:
		err = rs.repairNote(ctx, payload.Id)
	case events.KindRepairContent:
		err = rs.repairContent(ctx, payload.Id)
	}

	if err != nil {
		rs.logger.Warn("RepairService", "repair failed, will retry", map[string]interface{}{
			"kind":  payload.Kind,
			"id":    payload.Id,
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (rs *repairService) repairNote(ctx context.Context, id int64) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		// Deleted since the repair was queued. Nothing to do.
		rs.logger.Info("RepairService", "note gone, dropping repair", map[string]interface{}{"id": id})
		return nil
	}
	if !note.EmbeddingStale && note.Embedding != nil {
		// Repaired by a later successful save.
		return nil
	}

	result, err := rs.embeddingProvider.Generate(ctx, noteEmbedText(note.Name, note.Note), embedding.TaskDocument)
	if err != nil {
		return err
	}

	note.Embedding = result.Values
	note.EmbeddingStale = false
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return err
	}

	rs.logger.Info("RepairService", "note embedding repaired", map[string]interface{}{"id": id})
	rs.views.Invalidate()
	return nil
}

func (rs *repairService) repairContent(ctx context.Context, id int64) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ContentItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if item == nil {
		rs.logger.Info("RepairService", "content item gone, dropping repair", map[string]interface{}{"id": id})
		return nil
	}
	if item.Embedding != nil {
		return nil
	}

	result, err := rs.embeddingProvider.Generate(ctx, item.Text, embedding.TaskDocument)
	if err != nil {
		return err
	}

	item.Embedding = result.Values
	if err := uow.ContentItemRepository().Update(ctx, item); err != nil {
		return err
	}

	rs.logger.Info("RepairService", "content embedding repaired", map[string]interface{}{"id": id})
	rs.views.Invalidate()
	return nil
}
