package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/sprinkler/db"
)

func newProcessPayload(workflow db.Workflow) SubscriberProcessPayload {
	return SubscriberProcessPayload{
		EnvironmentID:      workflow.EnvironmentID,
		OrganizationID:     workflow.OrganizationID,
		TransactionID:      "tx-1",
		WorkflowIdentifier: workflow.TriggerIdentifier,
		WorkflowID:         workflow.ID,
		Subscriber:         SubscriberDefine{SubscriberID: "alice", Email: "alice@example.com"},
		Source:             SubscriberSourceSingle,
	}
}

func newStoredWorkflow(steps string) db.Workflow {
	return db.Workflow{
		ID:                NewPgUUID(),
		EnvironmentID:     NewPgUUID(),
		OrganizationID:    NewPgUUID(),
		TriggerIdentifier: "welcome",
		Name:              "Welcome",
		Origin:            WorkflowOriginInternal,
		Active:            true,
		Steps:             []byte(steps),
	}
}

func expectUpsert(mockDB *mockQuerier) db.Subscriber {
	stored := db.Subscriber{
		ID:           NewPgUUID(),
		SubscriberID: "alice",
	}
	mockDB.On("UpsertSubscriber", mock.Anything, mock.MatchedBy(func(arg db.UpsertSubscriberParams) bool {
		return arg.SubscriberID == "alice"
	})).Return(stored, nil).Once()
	return stored
}

func TestMaterializerCreatesJobPerStep(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[
		{"stepId":"inbox","channel":"in_app"},
		{"stepId":"mail","channel":"email"}
	]`)
	payload := newProcessPayload(workflow)

	mockDB.On("GetWorkflowByID", mock.Anything, db.GetWorkflowByIDParams{
		ID:            workflow.ID,
		EnvironmentID: workflow.EnvironmentID,
	}).Return(workflow, nil).Once()
	stored := expectUpsert(mockDB)
	mockDB.On("GetActiveIntegration", mock.Anything, db.GetActiveIntegrationParams{
		EnvironmentID: workflow.EnvironmentID,
		Channel:       ChannelEmail,
	}).Return(db.Integration{ProviderID: "sendgrid"}, nil).Once()
	mockDB.On("InsertJob", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertExpectations(t)

	providers := map[string]string{}
	for _, call := range mockDB.Calls {
		if call.Method != "InsertJob" {
			continue
		}
		arg := call.Arguments.Get(1).(db.InsertJobParams)
		providers[arg.StepID] = arg.ProviderID.String
		assert.Equal(t, stored.ID, arg.SubscriberID)
		assert.Equal(t, "alice", arg.ExternalSubscriberID)
		assert.Equal(t, workflow.ID, arg.WorkflowID)
	}
	// in_app never consults integrations, email uses the active one
	assert.Equal(t, InAppProviderID, providers["inbox"])
	assert.Equal(t, "sendgrid", providers["mail"])
}

func TestMaterializerWorkflowNotFound(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[]`)
	payload := newProcessPayload(workflow)
	payload.WorkflowID = pgtype.UUID{}

	mockDB.On("GetWorkflowByTriggerIdentifier", mock.Anything, mock.Anything).Return(db.Workflow{}, pgx.ErrNoRows).Once()

	m := NewMaterializer(mockDB)
	err := m.Process(context.Background(), payload)

	var notFound *WorkflowNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "welcome", notFound.Identifier)
	mockDB.AssertNotCalled(t, "UpsertSubscriber")
}

func TestMaterializerInvalidSubscriber(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[{"stepId":"inbox","channel":"in_app"}]`)
	payload := newProcessPayload(workflow)
	payload.Subscriber = SubscriberDefine{}

	mockDB.On("GetWorkflowByID", mock.Anything, mock.Anything).Return(workflow, nil).Once()

	m := NewMaterializer(mockDB)
	err := m.Process(context.Background(), payload)

	var invalid *InvalidSubscriberError
	require.ErrorAs(t, err, &invalid)
	mockDB.AssertNotCalled(t, "InsertJob")
}

func TestMaterializerUpsertMissSkipsSubscriber(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[{"stepId":"inbox","channel":"in_app"}]`)
	payload := newProcessPayload(workflow)

	mockDB.On("GetWorkflowByID", mock.Anything, mock.Anything).Return(workflow, nil).Once()
	mockDB.On("UpsertSubscriber", mock.Anything, mock.Anything).Return(db.Subscriber{}, pgx.ErrNoRows).Once()

	m := NewMaterializer(mockDB)
	// A rejected upsert skips the subscriber without failing the entry.
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertNotCalled(t, "InsertJob")
}

func TestMaterializerMissingIntegrationOmitsProvider(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[{"stepId":"text","channel":"sms"}]`)
	payload := newProcessPayload(workflow)

	mockDB.On("GetWorkflowByID", mock.Anything, mock.Anything).Return(workflow, nil).Once()
	expectUpsert(mockDB)
	mockDB.On("GetActiveIntegration", mock.Anything, mock.Anything).Return(db.Integration{}, pgx.ErrNoRows).Once()
	mockDB.On("InsertJob", mock.Anything, mock.MatchedBy(func(arg db.InsertJobParams) bool {
		return !arg.ProviderID.Valid
	})).Return(int64(1), nil).Once()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertExpectations(t)
}

func TestMaterializerControlsOverride(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[
		{"stepId":"inbox","channel":"in_app","controlValues":{"body":"stored"}},
		{"stepId":"other","channel":"in_app","controlValues":{"body":"stored"}}
	]`)
	payload := newProcessPayload(workflow)
	payload.Controls = &StatelessControls{Steps: map[string]json.RawMessage{
		"inbox": json.RawMessage(`{"body":"overridden"}`),
	}}

	mockDB.On("GetWorkflowByID", mock.Anything, mock.Anything).Return(workflow, nil).Once()
	expectUpsert(mockDB)
	mockDB.On("InsertJob", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))

	controls := map[string]string{}
	for _, call := range mockDB.Calls {
		if call.Method != "InsertJob" {
			continue
		}
		arg := call.Arguments.Get(1).(db.InsertJobParams)
		controls[arg.StepID] = string(arg.Controls)
	}
	assert.JSONEq(t, `{"body":"overridden"}`, controls["inbox"])
	assert.JSONEq(t, `{"body":"stored"}`, controls["other"])
}

func TestMaterializerIdempotentRedelivery(t *testing.T) {
	mockDB := new(mockQuerier)
	workflow := newStoredWorkflow(`[{"stepId":"inbox","channel":"in_app"}]`)
	payload := newProcessPayload(workflow)

	mockDB.On("GetWorkflowByID", mock.Anything, mock.Anything).Return(workflow, nil).Once()
	expectUpsert(mockDB)
	// Conflict on (transactionId, subscriberId, stepId): zero rows inserted,
	// still a success.
	mockDB.On("InsertJob", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertExpectations(t)
}

func TestMaterializerBridgeWorkflowWithoutShadowRecord(t *testing.T) {
	mockDB := new(mockQuerier)
	environmentID := NewPgUUID()

	payload := SubscriberProcessPayload{
		EnvironmentID:      environmentID,
		OrganizationID:     NewPgUUID(),
		TransactionID:      "tx-1",
		WorkflowIdentifier: "code-first",
		Subscriber:         SubscriberDefine{SubscriberID: "alice"},
		Source:             SubscriberSourceSingle,
		BridgeUrl:          "https://bridge.example.com/api",
		BridgeWorkflow: &BridgeWorkflow{
			WorkflowID: "code-first",
			Steps:      []Step{{StepID: "inbox", Channel: ChannelInApp}},
		},
	}

	mockDB.On("GetWorkflowByTriggerIdentifier", mock.Anything, db.GetWorkflowByTriggerIdentifierParams{
		EnvironmentID:     environmentID,
		TriggerIdentifier: "code-first",
	}).Return(db.Workflow{}, pgx.ErrNoRows).Once()
	expectUpsert(mockDB)
	mockDB.On("InsertJob", mock.Anything, mock.MatchedBy(func(arg db.InsertJobParams) bool {
		// No shadow record: the job persists with a NULL workflow id but
		// keeps the trigger identifier and the bridge endpoint.
		return !arg.WorkflowID.Valid &&
			arg.WorkflowIdentifier == "code-first" &&
			arg.BridgeUrl.String == "https://bridge.example.com/api"
	})).Return(int64(1), nil).Once()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertExpectations(t)
}

func TestMaterializerBridgeWorkflowWithShadowRecord(t *testing.T) {
	mockDB := new(mockQuerier)
	shadow := newStoredWorkflow(`[]`)
	shadow.TriggerIdentifier = "code-first"

	payload := SubscriberProcessPayload{
		EnvironmentID:      shadow.EnvironmentID,
		OrganizationID:     shadow.OrganizationID,
		TransactionID:      "tx-1",
		WorkflowIdentifier: "code-first",
		Subscriber:         SubscriberDefine{SubscriberID: "alice"},
		Source:             SubscriberSourceSingle,
		BridgeWorkflow: &BridgeWorkflow{
			WorkflowID: "code-first",
			Steps:      []Step{{StepID: "inbox", Channel: ChannelInApp}},
		},
	}

	mockDB.On("GetWorkflowByTriggerIdentifier", mock.Anything, mock.Anything).Return(shadow, nil).Once()
	expectUpsert(mockDB)
	mockDB.On("InsertJob", mock.Anything, mock.MatchedBy(func(arg db.InsertJobParams) bool {
		return arg.WorkflowID == shadow.ID
	})).Return(int64(1), nil).Once()

	m := NewMaterializer(mockDB)
	require.NoError(t, m.Process(context.Background(), payload))
	mockDB.AssertExpectations(t)
}
