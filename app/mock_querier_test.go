package app

// --- local test helpers (avoid importing testutil to prevent import cycle) ---

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/sweater-ventures/sprinkler/db"
)

// mockQuerier is a testify mock implementation of db.Querier for app tests.
type mockQuerier struct {
	mock.Mock
}

var _ db.Querier = (*mockQuerier)(nil)

func (m *mockQuerier) AddTopicSubscriber(ctx context.Context, arg db.AddTopicSubscriberParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuerier) ClaimQueueEntries(ctx context.Context, limit int32) ([]db.QueueEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.QueueEntry), args.Error(1)
}

func (m *mockQuerier) CompleteQueueEntry(ctx context.Context, id pgtype.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuerier) CountPendingQueueEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) EnqueueEntry(ctx context.Context, arg db.EnqueueEntryParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) GetActiveIntegration(ctx context.Context, arg db.GetActiveIntegrationParams) (db.Integration, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Integration), args.Error(1)
}

func (m *mockQuerier) GetSubscriberByExternalID(ctx context.Context, arg db.GetSubscriberByExternalIDParams) (db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscriber), args.Error(1)
}

func (m *mockQuerier) GetTopicsByKeys(ctx context.Context, arg db.GetTopicsByKeysParams) ([]db.Topic, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Topic), args.Error(1)
}

func (m *mockQuerier) GetWorkflowByID(ctx context.Context, arg db.GetWorkflowByIDParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *mockQuerier) GetWorkflowByTriggerIdentifier(ctx context.Context, arg db.GetWorkflowByTriggerIdentifierParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *mockQuerier) InsertIntegration(ctx context.Context, arg db.InsertIntegrationParams) (db.Integration, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Integration), args.Error(1)
}

func (m *mockQuerier) InsertJob(ctx context.Context, arg db.InsertJobParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) InsertTopic(ctx context.Context, arg db.InsertTopicParams) (db.Topic, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Topic), args.Error(1)
}

func (m *mockQuerier) InsertWorkflow(ctx context.Context, arg db.InsertWorkflowParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *mockQuerier) ListDistinctTopicSubscribers(ctx context.Context, arg db.ListDistinctTopicSubscribersParams) ([]db.ListDistinctTopicSubscribersRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ListDistinctTopicSubscribersRow), args.Error(1)
}

func (m *mockQuerier) ListJobsForTransaction(ctx context.Context, transactionID string) ([]db.Job, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).([]db.Job), args.Error(1)
}

func (m *mockQuerier) ListSubscribersPage(ctx context.Context, arg db.ListSubscribersPageParams) ([]db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Subscriber), args.Error(1)
}

func (m *mockQuerier) ReleaseQueueEntry(ctx context.Context, arg db.ReleaseQueueEntryParams) (string, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(string), args.Error(1)
}

func (m *mockQuerier) RequeueStaleEntries(ctx context.Context, claimedBefore pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, claimedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) UpsertSubscriber(ctx context.Context, arg db.UpsertSubscriberParams) (db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscriber), args.Error(1)
}
