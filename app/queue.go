package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sweater-ventures/sprinkler/db"
)

// QueueService is the durable subscriber-process queue. Entries are unique by
// name (transactionId + subscriberId), so re-submitting a chunk after a
// partial failure can never enqueue a subscriber twice for the same trigger.
type QueueService struct {
	q db.Querier
}

func NewQueueService(q db.Querier) *QueueService {
	return &QueueService{q: q}
}

var _ Queue = (*QueueService)(nil)

// AddBulk enqueues one entry per job. Conflicting names are skipped silently;
// the first error aborts the rest of this chunk and surfaces to the caller,
// which treats it as a chunk-level failure.
func (s *QueueService) AddBulk(ctx context.Context, jobs []QueueJob) error {
	for _, job := range jobs {
		data, err := json.Marshal(job.Payload)
		if err != nil {
			return err
		}

		inserted, err := s.q.EnqueueEntry(ctx, db.EnqueueEntryParams{
			ID:      pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true},
			Name:    job.Name,
			GroupID: job.GroupID,
			Data:    data,
		})
		if err != nil {
			return err
		}
		if inserted == 0 {
			slog.Debug("Queue entry already exists, skipping", "name", job.Name)
		}
	}
	return nil
}

// StartQueueWorkers launches the subscriber-process worker pool: a poll loop
// claims pending queue entries in batches and a fixed-size worker pool
// materializes jobs for each entry. Returns a stop function that drains
// in-flight work before returning.
func StartQueueWorkers(a *Application) func() {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	taskQueue := make(chan db.QueueEntry, a.Config.QueueClaimSize)
	materializer := NewMaterializer(a.DB)

	var workerWg sync.WaitGroup
	numWorkers := a.Config.QueueWorkers
	workerWg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer workerWg.Done()
			for entry := range taskQueue {
				processQueueEntry(a, materializer, entry)
			}
		}()
	}

	pending, err := a.DB.CountPendingQueueEntries(context.Background())
	if err != nil {
		slog.Error("Failed to count pending queue entries", "error", err)
	} else {
		slog.Info("Queue workers starting", "workers", numWorkers, "pending", pending)
	}

	done := make(chan struct{})
	pollInterval := time.Duration(a.Config.QueuePollMillis) * time.Millisecond
	staleAfter := time.Duration(a.Config.QueueStaleMinutes) * time.Minute

	go func() {
		defer close(done)
		defer close(taskQueue)

		lastStaleSweep := time.Time{}

		for {
			if shutdownCtx.Err() != nil {
				return
			}

			// Entries claimed by a worker that died get requeued once their
			// claim goes stale.
			if time.Since(lastStaleSweep) > staleAfter {
				requeued, err := a.DB.RequeueStaleEntries(context.Background(), pgtype.Timestamptz{
					Time:  time.Now().UTC().Add(-staleAfter),
					Valid: true,
				})
				if err != nil {
					slog.Error("Failed to requeue stale queue entries", "error", err)
				} else if requeued > 0 {
					slog.Info("Requeued stale queue entries", "count", requeued)
				}
				lastStaleSweep = time.Now()
			}

			entries, err := a.DB.ClaimQueueEntries(context.Background(), int32(a.Config.QueueClaimSize))
			if err != nil {
				slog.Error("Failed to claim queue entries", "error", err)
			}

			if len(entries) == 0 {
				select {
				case <-shutdownCtx.Done():
					return
				case <-time.After(pollInterval):
				}
				continue
			}

			for _, entry := range entries {
				select {
				case <-shutdownCtx.Done():
					// Claimed but unprocessed entries go back via the stale
					// sweep on next startup.
					return
				case taskQueue <- entry:
				}
			}
		}
	}()

	return func() {
		shutdownCancel()
		<-done
		workerWg.Wait()
		slog.Info("Queue workers drained")
	}
}

// processQueueEntry materializes jobs for one claimed entry. Success deletes
// the entry; failure releases it for redelivery until the attempt budget is
// exhausted, after which it is parked as dead.
func processQueueEntry(a *Application, materializer *Materializer, entry db.QueueEntry) {
	ctx := context.Background()
	logger := slog.Default().With("entry_name", entry.Name, "attempt", entry.Attempts)

	var payload SubscriberProcessPayload
	if err := json.Unmarshal(entry.Data, &payload); err != nil {
		logger.Error("Queue entry payload is not decodable, parking as dead", "error", err)
		if _, err := a.DB.ReleaseQueueEntry(ctx, db.ReleaseQueueEntryParams{MaxAttempts: 0, ID: entry.ID}); err != nil {
			logger.Error("Failed to park queue entry", "error", err)
		}
		return
	}

	if err := materializer.Process(ctx, payload); err != nil {
		logger.Warn("Failed to process subscriber", "error", err, "subscriber_id", payload.Subscriber.SubscriberID)
		status, relErr := a.DB.ReleaseQueueEntry(ctx, db.ReleaseQueueEntryParams{
			MaxAttempts: int32(a.Config.QueueMaxAttempts),
			ID:          entry.ID,
		})
		if relErr != nil {
			logger.Error("Failed to release queue entry", "error", relErr)
			return
		}
		if status == "dead" {
			logger.Error("Queue entry exhausted its attempts, parked as dead",
				"subscriber_id", payload.Subscriber.SubscriberID,
				"transaction_id", payload.TransactionID,
			)
		}
		return
	}

	if err := a.DB.CompleteQueueEntry(ctx, entry.ID); err != nil {
		// The entry will be redelivered; job persistence is idempotent so the
		// retry is harmless.
		logger.Error("Failed to complete queue entry", "error", err)
	}
}
