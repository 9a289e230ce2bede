package testutil

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/sprinkler/app"
	"github.com/sweater-ventures/sprinkler/config"
	"github.com/sweater-ventures/sprinkler/db"
)

// NewUUID returns a pgtype.UUID with a new random UUID.
func NewUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

// NewTimestamp returns a pgtype.Timestamptz set to now.
func NewTimestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

// WorkflowOpt is a functional option for building test Workflows.
type WorkflowOpt func(*db.Workflow)

// NewWorkflow creates a db.Workflow with sensible defaults. Use options to override.
func NewWorkflow(opts ...WorkflowOpt) db.Workflow {
	w := db.Workflow{
		ID:                NewUUID(),
		EnvironmentID:     NewUUID(),
		OrganizationID:    NewUUID(),
		TriggerIdentifier: "test-workflow",
		Name:              "Test Workflow",
		Origin:            "internal",
		Steps:             json.RawMessage(`[{"stepId":"in-app-step","channel":"in_app"}]`),
		Active:            true,
		CreatedAt:         NewTimestamp(),
		UpdatedAt:         NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// SubscriberOpt is a functional option for building test Subscribers.
type SubscriberOpt func(*db.Subscriber)

// NewSubscriber creates a db.Subscriber with sensible defaults.
func NewSubscriber(opts ...SubscriberOpt) db.Subscriber {
	s := db.Subscriber{
		ID:             NewUUID(),
		EnvironmentID:  NewUUID(),
		OrganizationID: NewUUID(),
		SubscriberID:   "test-subscriber",
		CreatedAt:      NewTimestamp(),
		UpdatedAt:      NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// TopicOpt is a functional option for building test Topics.
type TopicOpt func(*db.Topic)

// NewTopic creates a db.Topic with sensible defaults.
func NewTopic(opts ...TopicOpt) db.Topic {
	t := db.Topic{
		ID:             NewUUID(),
		EnvironmentID:  NewUUID(),
		OrganizationID: NewUUID(),
		Key:            "test-topic",
		Name:           pgtype.Text{String: "Test Topic", Valid: true},
		CreatedAt:      NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// QueueEntryOpt is a functional option for building test QueueEntries.
type QueueEntryOpt func(*db.QueueEntry)

// NewQueueEntry creates a db.QueueEntry with sensible defaults.
func NewQueueEntry(opts ...QueueEntryOpt) db.QueueEntry {
	e := db.QueueEntry{
		ID:        NewUUID(),
		Name:      "tx-1:sub-1",
		GroupID:   NewUUID(),
		Data:      json.RawMessage(`{}`),
		Status:    "pending",
		Attempts:  0,
		CreatedAt: NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppOpt is a functional option for building test Applications.
type AppOpt func(*app.Application)

// NewTestApp creates an app.Application suitable for testing.
// It uses the provided mock Querier and sensible config defaults.
func NewTestApp(mockDB *MockQuerier, opts ...AppOpt) *app.Application {
	cfg := config.AppConfig{
		Port:               8006,
		MulticastChunkSize: 100,
		BroadcastChunkSize: 100,
		TopicBatchSize:     100,
		BroadcastFetchSize: 500,
		QueueWorkers:       2,
		QueueClaimSize:     10,
		QueuePollMillis:    10,
		QueueMaxAttempts:   3,
		QueueStaleMinutes:  5,
	}
	queue := app.NewQueueService(mockDB)
	a := &app.Application{
		Config: cfg,
		DB:     mockDB,
		Queue:  queue,
		Dispatcher: app.NewDispatcher(mockDB, queue, nil, app.DispatchConfig{
			MulticastChunkSize: cfg.MulticastChunkSize,
			BroadcastChunkSize: cfg.BroadcastChunkSize,
			TopicBatchSize:     cfg.TopicBatchSize,
			BroadcastFetchSize: cfg.BroadcastFetchSize,
		}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
