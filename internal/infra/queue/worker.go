package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/metrics"
	"github.com/followwise/followwise-api/internal/usecase"
)

// FollowUpGenerator is the orchestrator as seen by the worker.
type FollowUpGenerator interface {
	Execute(ctx context.Context, input usecase.GenerateFollowUpsInput) ([]*entity.FollowUpSuggestion, error)
}

type Worker struct {
	Channel    *amqp.Channel
	Generator  FollowUpGenerator
	JobTimeout time.Duration
}

func NewWorker(ch *amqp.Channel, generator FollowUpGenerator, jobTimeout time.Duration) *Worker {
	return &Worker{
		Channel:    ch,
		Generator:  generator,
		JobTimeout: jobTimeout,
	}
}

// Start consumes regeneration jobs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("[WORKER] waiting for regeneration jobs on '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("[WORKER] stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var job usecase.RegenerationJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("[WORKER] invalid payload: %v", err)
		metrics.RecordRegenerationJob("rejected")
		d.Nack(false, false)
		return
	}

	jobCtx := ctx
	if w.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.JobTimeout)
		defer cancel()
	}

	_, err := w.Generator.Execute(jobCtx, usecase.GenerateFollowUpsInput{
		LeadID:  job.LeadID,
		UserID:  job.UserID,
		Context: job.Context,
		Tone:    job.Tone,
	})

	switch {
	case err == nil:
		log.Printf("[WORKER] regenerated suggestions for lead %s (origin %s)", job.LeadID, job.Origin)
		metrics.RecordRegenerationJob("ok")
		d.Ack(false)
	case usecase.IsDomainError(err), isValidation(err):
		log.Printf("[WORKER] dropping job for lead %s: %v", job.LeadID, err)
		metrics.RecordRegenerationJob("rejected")
		d.Nack(false, false)
	case !d.Redelivered:
		log.Printf("[WORKER] job for lead %s failed, requeueing: %v", job.LeadID, err)
		metrics.RecordRegenerationJob("retry")
		d.Nack(false, true)
	default:
		log.Printf("[WORKER] job for lead %s failed twice, dead-lettering: %v", job.LeadID, err)
		metrics.RecordRegenerationJob("failed")
		d.Nack(false, false)
	}
}

func isValidation(err error) bool {
	var ve usecase.ValidationErrors
	return errors.As(err, &ve)
}
