package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sweater-ventures/sprinkler/db"
)

// Materializer turns one queued subscriber-process payload into persisted
// delivery jobs: resolve the workflow, upsert the subscriber profile, resolve
// a provider per channel, and emit one job per workflow step. It runs per
// queue entry, so a failure here never affects sibling subscribers of the
// same trigger.
type Materializer struct {
	q db.Querier
}

func NewMaterializer(q db.Querier) *Materializer {
	return &Materializer{q: q}
}

// Process is idempotent under queue redelivery: job persistence conflicts on
// (transactionId, subscriberId, stepId) and skips rows that already exist.
func (m *Materializer) Process(ctx context.Context, payload SubscriberProcessPayload) error {
	logger := slog.Default().With(
		"transaction_id", payload.TransactionID,
		"environment_id", UuidToString(payload.EnvironmentID),
		"organization_id", UuidToString(payload.OrganizationID),
	)

	workflow, err := m.resolveWorkflow(ctx, payload)
	if err != nil {
		return err
	}

	if payload.Subscriber.SubscriberID == "" {
		return &InvalidSubscriberError{}
	}

	subscriber, err := m.upsertSubscriber(ctx, payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The store rejected the upsert; no jobs for this subscriber, and
			// this layer does not retry.
			logger.Warn("Subscriber was not processed, no jobs created",
				"subscriber_id", payload.Subscriber.SubscriberID)
			return nil
		}
		return err
	}

	providers, err := m.resolveProviders(ctx, payload.EnvironmentID, workflow.Steps)
	if err != nil {
		return err
	}

	for _, step := range workflow.Steps {
		controls := step.ControlValues
		if payload.Controls != nil {
			if override, ok := payload.Controls.Steps[step.StepID]; ok {
				controls = override
			}
		}

		var providerID pgtype.Text
		if p, ok := providers[step.Channel]; ok {
			providerID = pgtype.Text{String: p, Valid: true}
		}

		var bridgeUrl pgtype.Text
		if step.BridgeUrl != "" {
			bridgeUrl = pgtype.Text{String: step.BridgeUrl, Valid: true}
		}

		var topics []byte
		if len(payload.Topics) > 0 {
			topics, err = json.Marshal(payload.Topics)
			if err != nil {
				return err
			}
		}

		var actor []byte
		if payload.Actor != nil {
			actor, err = json.Marshal(payload.Actor)
			if err != nil {
				return err
			}
		}

		inserted, err := m.q.InsertJob(ctx, db.InsertJobParams{
			ID:                   pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true},
			TransactionID:        payload.TransactionID,
			EnvironmentID:        payload.EnvironmentID,
			OrganizationID:       payload.OrganizationID,
			WorkflowID:           workflow.ID,
			WorkflowIdentifier:   workflow.Identifier,
			SubscriberID:         subscriber.ID,
			ExternalSubscriberID: subscriber.SubscriberID,
			StepID:               step.StepID,
			Channel:              step.Channel,
			ProviderID:           providerID,
			Payload:              payload.Payload,
			Overrides:            payload.Overrides,
			Controls:             controls,
			Actor:                actor,
			Tenant:               payload.Tenant,
			Topics:               topics,
			BridgeUrl:            bridgeUrl,
			Status:               "pending",
		})
		if err != nil {
			return err
		}
		if inserted == 0 {
			logger.Debug("Job already persisted, skipping",
				"subscriber_id", subscriber.SubscriberID, "step_id", step.StepID)
		}
	}

	return nil
}

// resolveWorkflow picks the workflow for this payload. Stateless (code-first)
// definitions ride the payload itself and are matched against a persisted
// shadow record to obtain a stable internal ID; when no shadow exists the
// internal ID stays unset and jobs persist with a NULL workflow id.
// Persisted workflows are looked up by ID, or by trigger identifier when the
// dispatch side did not resolve an ID.
func (m *Materializer) resolveWorkflow(ctx context.Context, payload SubscriberProcessPayload) (resolvedWorkflow, error) {
	if payload.BridgeWorkflow != nil {
		return m.resolveBridgeWorkflow(ctx, payload)
	}

	var (
		record db.Workflow
		err    error
	)
	if payload.WorkflowID.Valid {
		record, err = m.q.GetWorkflowByID(ctx, db.GetWorkflowByIDParams{
			ID:            payload.WorkflowID,
			EnvironmentID: payload.EnvironmentID,
		})
	} else {
		record, err = m.q.GetWorkflowByTriggerIdentifier(ctx, db.GetWorkflowByTriggerIdentifierParams{
			EnvironmentID:     payload.EnvironmentID,
			TriggerIdentifier: payload.WorkflowIdentifier,
		})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resolvedWorkflow{}, &WorkflowNotFoundError{Identifier: payload.WorkflowIdentifier}
		}
		return resolvedWorkflow{}, err
	}

	steps, err := decodeSteps(record.Steps)
	if err != nil {
		return resolvedWorkflow{}, err
	}

	return resolvedWorkflow{
		ID:         record.ID,
		Identifier: record.TriggerIdentifier,
		Name:       record.Name,
		Origin:     record.Origin,
		Steps:      steps,
	}, nil
}

func (m *Materializer) resolveBridgeWorkflow(ctx context.Context, payload SubscriberProcessPayload) (resolvedWorkflow, error) {
	bridge := payload.BridgeWorkflow

	// A synced shadow record gives the stateless definition a stable internal
	// ID. Absence is fine: the workflow is ephemeral.
	var workflowID pgtype.UUID
	shadow, err := m.q.GetWorkflowByTriggerIdentifier(ctx, db.GetWorkflowByTriggerIdentifierParams{
		EnvironmentID:     payload.EnvironmentID,
		TriggerIdentifier: bridge.WorkflowID,
	})
	if err == nil {
		workflowID = shadow.ID
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return resolvedWorkflow{}, err
	}

	steps := make([]Step, 0, len(bridge.Steps))
	for _, step := range bridge.Steps {
		step.BridgeUrl = payload.BridgeUrl
		steps = append(steps, step)
	}

	return resolvedWorkflow{
		ID:         workflowID,
		Identifier: bridge.WorkflowID,
		Name:       bridge.Name,
		Origin:     WorkflowOriginExternal,
		Steps:      steps,
	}, nil
}

// upsertSubscriber creates or refreshes the subscriber profile from whatever
// fields the trigger supplied. Absent fields never clear stored values; two
// concurrent upserts for the same subscriber are last-write-wins.
func (m *Materializer) upsertSubscriber(ctx context.Context, payload SubscriberProcessPayload) (db.Subscriber, error) {
	define := payload.Subscriber
	return m.q.UpsertSubscriber(ctx, db.UpsertSubscriberParams{
		ID:             pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true},
		EnvironmentID:  payload.EnvironmentID,
		OrganizationID: payload.OrganizationID,
		SubscriberID:   define.SubscriberID,
		FirstName:      optionalText(define.FirstName),
		LastName:       optionalText(define.LastName),
		Email:          optionalText(define.Email),
		Phone:          optionalText(define.Phone),
		Avatar:         optionalText(define.Avatar),
		Locale:         optionalText(define.Locale),
		Data:           define.Data,
	})
}

// resolveProviders maps each distinct channel used by the workflow's steps to
// the active integration's provider ID. In-app always resolves to the
// built-in provider. A channel with no active integration is omitted from the
// map; its steps persist without a provider and get sorted out downstream.
func (m *Materializer) resolveProviders(ctx context.Context, environmentID pgtype.UUID, steps []Step) (map[string]string, error) {
	providers := make(map[string]string)

	for _, step := range steps {
		if step.Channel == "" {
			continue
		}
		if _, done := providers[step.Channel]; done {
			continue
		}

		if step.Channel == ChannelInApp {
			providers[ChannelInApp] = InAppProviderID
			continue
		}

		integration, err := m.q.GetActiveIntegration(ctx, db.GetActiveIntegrationParams{
			EnvironmentID: environmentID,
			Channel:       step.Channel,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		providers[step.Channel] = integration.ProviderID
	}

	return providers, nil
}
