package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"github.com/sweater-ventures/sprinkler/db"
)

// Subscriber sources: how a subscriber ended up in a trigger's population.
const (
	SubscriberSourceSingle    = "single"
	SubscriberSourceTopic     = "topic"
	SubscriberSourceBroadcast = "broadcast"
)

// TriggerContext is one request to notify some population of subscribers via
// a named workflow. It is built once by the API layer and flows by value
// through the pipeline; it is never persisted. TransactionID is the
// idempotency anchor for every job derived from this trigger.
type TriggerContext struct {
	EnvironmentID      pgtype.UUID
	OrganizationID     pgtype.UUID
	UserID             pgtype.UUID
	TransactionID      string
	WorkflowIdentifier string
	WorkflowID         pgtype.UUID
	Payload            json.RawMessage
	Overrides          json.RawMessage
	Recipients         []Recipient
	Actor              *SubscriberDefine
	Tenant             json.RawMessage
	RequestCategory    string
	Controls           *StatelessControls
	BridgeUrl          string
	BridgeWorkflow     *BridgeWorkflow
}

// SubscriberProcessPayload is the queue entry body: everything one worker
// needs to materialize jobs for one subscriber, detached from the triggering
// request.
type SubscriberProcessPayload struct {
	EnvironmentID      pgtype.UUID        `json:"environment_id"`
	OrganizationID     pgtype.UUID        `json:"organization_id"`
	UserID             pgtype.UUID        `json:"user_id"`
	TransactionID      string             `json:"transaction_id"`
	WorkflowIdentifier string             `json:"workflow_identifier"`
	WorkflowID         pgtype.UUID        `json:"workflow_id"`
	Subscriber         SubscriberDefine   `json:"subscriber"`
	Source             string             `json:"source"`
	Topics             []TopicRef         `json:"topics,omitempty"`
	Payload            json.RawMessage    `json:"payload,omitempty"`
	Overrides          json.RawMessage    `json:"overrides,omitempty"`
	Actor              *SubscriberDefine  `json:"actor,omitempty"`
	Tenant             json.RawMessage    `json:"tenant,omitempty"`
	RequestCategory    string             `json:"request_category,omitempty"`
	Controls           *StatelessControls `json:"controls,omitempty"`
	BridgeUrl          string             `json:"bridge_url,omitempty"`
	BridgeWorkflow     *BridgeWorkflow    `json:"bridge_workflow,omitempty"`
}

// QueueJob is one pending queue submission. Name doubles as the idempotency
// key; GroupID partitions entries by tenant for fairness.
type QueueJob struct {
	Name    string
	GroupID pgtype.UUID
	Payload SubscriberProcessPayload
}

// Queue accepts bulk submissions of subscriber-process jobs.
type Queue interface {
	AddBulk(ctx context.Context, jobs []QueueJob) error
}

// UsageRecorder increments a usage counter if it exists. Best-effort only.
type UsageRecorder interface {
	IncrIfExists(ctx context.Context, key string, amount int64) error
}

// DispatchConfig carries the batching knobs for the trigger dispatch
// strategies. Zero values fall back to the documented defaults.
type DispatchConfig struct {
	// MulticastChunkSize and BroadcastChunkSize bound each bulk queue write.
	MulticastChunkSize int
	BroadcastChunkSize int
	// TopicBatchSize is the distinct topic-subscriber stream batch size and
	// the multicast submit buffer size.
	TopicBatchSize int
	// BroadcastFetchSize is the broadcast cursor fetch size and submit buffer
	// size. Larger than the chunk size so read I/O efficiency and queue burst
	// size stay decoupled.
	BroadcastFetchSize int
	// UsageMetering gates the per-organization usage counter increments.
	UsageMetering bool
}

const (
	defaultQueueChunkSize     = 100
	defaultTopicBatchSize     = 100
	defaultBroadcastFetchSize = 500
)

func (c DispatchConfig) withDefaults() DispatchConfig {
	if c.MulticastChunkSize <= 0 {
		c.MulticastChunkSize = defaultQueueChunkSize
	}
	if c.BroadcastChunkSize <= 0 {
		c.BroadcastChunkSize = defaultQueueChunkSize
	}
	if c.TopicBatchSize <= 0 {
		c.TopicBatchSize = defaultTopicBatchSize
	}
	if c.BroadcastFetchSize <= 0 {
		c.BroadcastFetchSize = defaultBroadcastFetchSize
	}
	return c
}

// Dispatcher expands one trigger into per-subscriber queue entries using the
// broadcast or multicast strategy. Dispatch runs to completion within the
// caller's context; per-subscriber materialization happens later, off the
// queue.
type Dispatcher struct {
	q     db.Querier
	queue Queue
	usage UsageRecorder
	cfg   DispatchConfig
}

func NewDispatcher(q db.Querier, queue Queue, usage UsageRecorder, cfg DispatchConfig) *Dispatcher {
	return &Dispatcher{
		q:     q,
		queue: queue,
		usage: usage,
		cfg:   cfg.withDefaults(),
	}
}

// resolvedSubscriber is one member of a trigger's resolved population, tagged
// with how it was addressed.
type resolvedSubscriber struct {
	Define SubscriberDefine
	Topics []TopicRef
}

// TriggerMulticast fans a trigger out to an explicit, possibly mixed list of
// direct subscribers and topics. Direct recipients are submitted first; topic
// members stream afterwards, excluding anyone already covered directly and
// the triggering actor. A trigger that resolves to nobody is a successful
// no-op.
func (d *Dispatcher) TriggerMulticast(ctx context.Context, trigger TriggerContext) error {
	logger := slog.Default().With("transaction_id", trigger.TransactionID, "workflow", trigger.WorkflowIdentifier)

	singles, topicKeys, err := SplitRecipients(trigger.Recipients)
	if err != nil {
		return err
	}

	if len(singles) > 0 {
		direct := make([]resolvedSubscriber, 0, len(singles))
		for _, define := range singles {
			direct = append(direct, resolvedSubscriber{Define: define})
		}
		d.submitToQueue(ctx, logger, trigger, direct, SubscriberSourceSingle, d.cfg.MulticastChunkSize)
	}

	topics, err := resolveTopics(ctx, d.q, trigger.OrganizationID, trigger.EnvironmentID, topicKeys)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return nil
	}

	exclude := make([]string, 0, len(singles))
	for subscriberID := range singles {
		exclude = append(exclude, subscriberID)
	}

	stream := newTopicSubscriberStream(d.q, trigger.OrganizationID, trigger.EnvironmentID, topics, exclude, d.cfg.TopicBatchSize)

	var buffer []resolvedSubscriber
	for {
		if err := ctx.Err(); err != nil {
			// Cancelled mid-dispatch: stop issuing submissions, never retract
			// chunks already queued.
			return err
		}

		batch, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for _, item := range batch {
			if trigger.Actor != nil && trigger.Actor.SubscriberID == item.SubscriberID {
				continue
			}
			buffer = append(buffer, resolvedSubscriber{
				Define: SubscriberDefine{SubscriberID: item.SubscriberID},
				Topics: item.Topics,
			})
			if len(buffer) == d.cfg.TopicBatchSize {
				d.submitToQueue(ctx, logger, trigger, buffer, SubscriberSourceTopic, d.cfg.MulticastChunkSize)
				buffer = nil
			}
		}
	}

	if len(buffer) > 0 {
		d.submitToQueue(ctx, logger, trigger, buffer, SubscriberSourceTopic, d.cfg.MulticastChunkSize)
	}

	return nil
}

// TriggerBroadcast fans a trigger out to every subscriber in the
// environment, consuming the broadcast cursor stream in fetch-size batches.
func (d *Dispatcher) TriggerBroadcast(ctx context.Context, trigger TriggerContext) error {
	logger := slog.Default().With("transaction_id", trigger.TransactionID, "workflow", trigger.WorkflowIdentifier)

	stream := newBroadcastStream(d.q, trigger.OrganizationID, trigger.EnvironmentID, d.cfg.BroadcastFetchSize)

	var buffer []resolvedSubscriber
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for _, subscriber := range batch {
			buffer = append(buffer, resolvedSubscriber{
				Define: SubscriberDefine{SubscriberID: subscriber.SubscriberID},
			})
			if len(buffer) == d.cfg.BroadcastFetchSize {
				d.submitToQueue(ctx, logger, trigger, buffer, SubscriberSourceBroadcast, d.cfg.BroadcastChunkSize)
				buffer = nil
			}
		}
	}

	if len(buffer) > 0 {
		d.submitToQueue(ctx, logger, trigger, buffer, SubscriberSourceBroadcast, d.cfg.BroadcastChunkSize)
	}

	return nil
}

// submitToQueue maps resolved subscribers to queue jobs, splits them into
// chunks, and submits all chunks concurrently. A chunk that fails to enqueue
// is logged and dropped without aborting its siblings: one bad chunk must not
// block fan-out to the rest of the population. After each successful chunk,
// the usage counter is bumped best-effort when metering is on.
func (d *Dispatcher) submitToQueue(ctx context.Context, logger *slog.Logger, trigger TriggerContext, subscribers []resolvedSubscriber, source string, chunkSize int) {
	if len(subscribers) == 0 {
		return
	}

	jobs := mapSubscribersToJobs(trigger, subscribers, source)

	var g errgroup.Group
	for _, chunk := range chunkJobs(jobs, chunkSize) {
		g.Go(func() error {
			if err := d.queue.AddBulk(ctx, chunk); err != nil {
				logger.Warn("Failed to add jobs to queue", "error", err, "chunk_size", len(chunk))
				return nil
			}

			if d.cfg.UsageMetering && d.usage != nil {
				key := BuildUsageKey(trigger.OrganizationID)
				if err := d.usage.IncrIfExists(ctx, key, int64(len(chunk))); err != nil {
					// Usage accounting must never block delivery.
					logger.Warn("Failed to increment usage counter", "error", err, "key", key)
				}
			}
			return nil
		})
	}
	// Chunk errors are logged above, never propagated.
	_ = g.Wait()
}

func mapSubscribersToJobs(trigger TriggerContext, subscribers []resolvedSubscriber, source string) []QueueJob {
	jobs := make([]QueueJob, 0, len(subscribers))
	for _, subscriber := range subscribers {
		jobs = append(jobs, QueueJob{
			Name:    trigger.TransactionID + subscriber.Define.SubscriberID,
			GroupID: trigger.OrganizationID,
			Payload: SubscriberProcessPayload{
				EnvironmentID:      trigger.EnvironmentID,
				OrganizationID:     trigger.OrganizationID,
				UserID:             trigger.UserID,
				TransactionID:      trigger.TransactionID,
				WorkflowIdentifier: trigger.WorkflowIdentifier,
				WorkflowID:         trigger.WorkflowID,
				Subscriber:         subscriber.Define,
				Source:             source,
				Topics:             subscriber.Topics,
				Payload:            trigger.Payload,
				Overrides:          trigger.Overrides,
				Actor:              trigger.Actor,
				Tenant:             trigger.Tenant,
				RequestCategory:    trigger.RequestCategory,
				Controls:           trigger.Controls,
				BridgeUrl:          trigger.BridgeUrl,
				BridgeWorkflow:     trigger.BridgeWorkflow,
			},
		})
	}
	return jobs
}

func chunkJobs(jobs []QueueJob, size int) [][]QueueJob {
	var chunks [][]QueueJob
	for start := 0; start < len(jobs); start += size {
		end := min(start+size, len(jobs))
		chunks = append(chunks, jobs[start:end])
	}
	return chunks
}
