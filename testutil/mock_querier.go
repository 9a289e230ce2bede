package testutil

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/sweater-ventures/sprinkler/db"
)

// MockQuerier is a testify mock implementation of db.Querier.
type MockQuerier struct {
	mock.Mock
}

var _ db.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) AddTopicSubscriber(ctx context.Context, arg db.AddTopicSubscriberParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockQuerier) ClaimQueueEntries(ctx context.Context, limit int32) ([]db.QueueEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.QueueEntry), args.Error(1)
}

func (m *MockQuerier) CompleteQueueEntry(ctx context.Context, id pgtype.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) CountPendingQueueEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) EnqueueEntry(ctx context.Context, arg db.EnqueueEntryParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) GetActiveIntegration(ctx context.Context, arg db.GetActiveIntegrationParams) (db.Integration, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Integration), args.Error(1)
}

func (m *MockQuerier) GetSubscriberByExternalID(ctx context.Context, arg db.GetSubscriberByExternalIDParams) (db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscriber), args.Error(1)
}

func (m *MockQuerier) GetTopicsByKeys(ctx context.Context, arg db.GetTopicsByKeysParams) ([]db.Topic, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Topic), args.Error(1)
}

func (m *MockQuerier) GetWorkflowByID(ctx context.Context, arg db.GetWorkflowByIDParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *MockQuerier) GetWorkflowByTriggerIdentifier(ctx context.Context, arg db.GetWorkflowByTriggerIdentifierParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *MockQuerier) InsertIntegration(ctx context.Context, arg db.InsertIntegrationParams) (db.Integration, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Integration), args.Error(1)
}

func (m *MockQuerier) InsertJob(ctx context.Context, arg db.InsertJobParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) InsertTopic(ctx context.Context, arg db.InsertTopicParams) (db.Topic, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Topic), args.Error(1)
}

func (m *MockQuerier) InsertWorkflow(ctx context.Context, arg db.InsertWorkflowParams) (db.Workflow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Workflow), args.Error(1)
}

func (m *MockQuerier) ListDistinctTopicSubscribers(ctx context.Context, arg db.ListDistinctTopicSubscribersParams) ([]db.ListDistinctTopicSubscribersRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ListDistinctTopicSubscribersRow), args.Error(1)
}

func (m *MockQuerier) ListJobsForTransaction(ctx context.Context, transactionID string) ([]db.Job, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).([]db.Job), args.Error(1)
}

func (m *MockQuerier) ListSubscribersPage(ctx context.Context, arg db.ListSubscribersPageParams) ([]db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Subscriber), args.Error(1)
}

func (m *MockQuerier) ReleaseQueueEntry(ctx context.Context, arg db.ReleaseQueueEntryParams) (string, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(string), args.Error(1)
}

func (m *MockQuerier) RequeueStaleEntries(ctx context.Context, claimedBefore pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, claimedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) UpsertSubscriber(ctx context.Context, arg db.UpsertSubscriberParams) (db.Subscriber, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscriber), args.Error(1)
}
