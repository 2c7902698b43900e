package worker

import (
	"context"
	"log"
	"time"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/usecase"
)

const defaultBatchSize = 50

// FollowUpDueWorker queues a polite regeneration for every active lead whose
// next_followup_at has passed and that has no live suggestion batch.
type FollowUpDueWorker struct {
	leads        entity.LeadRepositoryInterface
	publisher    usecase.RegenerationPublisher
	tickInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewFollowUpDueWorker(leads entity.LeadRepositoryInterface, publisher usecase.RegenerationPublisher, tickInterval time.Duration) *FollowUpDueWorker {
	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	return &FollowUpDueWorker{
		leads:        leads,
		publisher:    publisher,
		tickInterval: tickInterval,
		batchSize:    defaultBatchSize,
		now:          time.Now,
	}
}

func (w *FollowUpDueWorker) Start(ctx context.Context) {
	log.Printf("[SCHEDULER] follow-up due worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.scheduleDue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[SCHEDULER] follow-up due worker stopped")
			return
		case <-ticker.C:
			w.scheduleDue(ctx)
		}
	}
}

// scheduleDue returns the number of jobs published.
func (w *FollowUpDueWorker) scheduleDue(ctx context.Context) int {
	leads, err := w.leads.ListDueForFollowUp(ctx, w.now(), w.batchSize)
	if err != nil {
		log.Printf("[SCHEDULER] failed to list due leads: %v", err)
		return 0
	}

	queued := 0
	for _, lead := range leads {
		job := usecase.RegenerationJob{
			LeadID: lead.ID,
			UserID: lead.UserID,
			Tone:   string(entity.TonePolite),
			Origin: usecase.OriginScheduler,
		}
		if err := w.publisher.PublishRegeneration(ctx, job); err != nil {
			log.Printf("[SCHEDULER] failed to queue lead %s: %v", lead.ID, err)
			continue
		}
		queued++
	}

	if queued > 0 {
		log.Printf("[SCHEDULER] queued %d due follow-up(s)", queued)
	}
	return queued
}
