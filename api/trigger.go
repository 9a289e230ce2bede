package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/sprinkler/app"
	"github.com/sweater-ventures/sprinkler/db"
)

func init() {
	registerRoute(func(app *app.Application, router *http.ServeMux) {
		router.Handle("POST /v1/events/trigger", routeHandler(app, triggerEventHandler))
		router.Handle("POST /v1/events/trigger/broadcast", routeHandler(app, triggerBroadcastHandler))
	})
}

// TriggerEventRequest is the body of both trigger endpoints. Scoping IDs are
// injected by the upstream gateway after authentication; this service trusts
// them as given.
type TriggerEventRequest struct {
	Name           string                 `json:"name"`
	To             []app.Recipient        `json:"to,omitempty"`
	Payload        json.RawMessage        `json:"payload,omitempty"`
	Overrides      json.RawMessage        `json:"overrides,omitempty"`
	TransactionID  *string                `json:"transactionId"`
	Actor          *actorField            `json:"actor,omitempty"`
	Tenant         json.RawMessage        `json:"tenant,omitempty"`
	BridgeUrl      string                 `json:"bridgeUrl,omitempty"`
	Controls       *app.StatelessControls `json:"controls,omitempty"`
	Workflow       *app.BridgeWorkflow    `json:"workflow,omitempty"`
	EnvironmentID  string                 `json:"environmentId"`
	OrganizationID string                 `json:"organizationId"`
	UserID         string                 `json:"userId,omitempty"`
}

type TriggerEventResponse struct {
	Acknowledged  bool   `json:"acknowledged"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// actorField accepts either a bare subscriber ID string or a full subscriber
// object.
type actorField struct {
	app.SubscriberDefine
}

func (a *actorField) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		a.SubscriberDefine = app.SubscriberDefine{SubscriberID: id}
		return nil
	}
	return json.Unmarshal(data, &a.SubscriberDefine)
}

func triggerEventHandler(app *app.Application, w http.ResponseWriter, r *http.Request) {
	req, trigger, ok := parseTriggerRequest(app, w, r)
	if !ok {
		return
	}

	if len(req.To) == 0 {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "to is required"})
		return
	}
	trigger.Recipients = req.To
	trigger.RequestCategory = "single"

	if err := app.Dispatcher.TriggerMulticast(r.Context(), trigger); err != nil {
		writeTriggerError(w, r, err)
		return
	}

	writeJsonResponse(w, http.StatusCreated, TriggerEventResponse{
		Acknowledged:  true,
		Status:        "processed",
		TransactionID: trigger.TransactionID,
	})
}

func triggerBroadcastHandler(app *app.Application, w http.ResponseWriter, r *http.Request) {
	req, trigger, ok := parseTriggerRequest(app, w, r)
	if !ok {
		return
	}

	if len(req.To) != 0 {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "to is not allowed on broadcast triggers"})
		return
	}

	trigger.RequestCategory = "broadcast"

	if err := app.Dispatcher.TriggerBroadcast(r.Context(), trigger); err != nil {
		writeTriggerError(w, r, err)
		return
	}

	writeJsonResponse(w, http.StatusCreated, TriggerEventResponse{
		Acknowledged:  true,
		Status:        "processed",
		TransactionID: trigger.TransactionID,
	})
}

// parseTriggerRequest validates the shared body shape and assembles the
// trigger context. Persisted workflows are resolved here so an unknown
// trigger identifier fails the request before any fan-out happens; inline
// (stateless) workflows skip the lookup.
func parseTriggerRequest(application *app.Application, w http.ResponseWriter, r *http.Request) (TriggerEventRequest, app.TriggerContext, bool) {
	var req TriggerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return req, app.TriggerContext{}, false
	}

	if req.Name == "" && req.Workflow == nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return req, app.TriggerContext{}, false
	}

	environmentID, err := parseScopeID(req.EnvironmentID)
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "environmentId must be a valid UUID"})
		return req, app.TriggerContext{}, false
	}
	organizationID, err := parseScopeID(req.OrganizationID)
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "organizationId must be a valid UUID"})
		return req, app.TriggerContext{}, false
	}

	var userID pgtype.UUID
	if req.UserID != "" {
		userID, err = parseScopeID(req.UserID)
		if err != nil {
			writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "userId must be a valid UUID"})
			return req, app.TriggerContext{}, false
		}
	}

	transactionID := ""
	if req.TransactionID != nil {
		transactionID = *req.TransactionID
	}
	if transactionID == "" {
		transactionID = uuid.Must(uuid.NewV7()).String()
	}

	identifier := req.Name
	if identifier == "" {
		identifier = req.Workflow.WorkflowID
	}

	trigger := app.TriggerContext{
		EnvironmentID:      environmentID,
		OrganizationID:     organizationID,
		UserID:             userID,
		TransactionID:      transactionID,
		WorkflowIdentifier: identifier,
		Payload:            req.Payload,
		Overrides:          req.Overrides,
		Tenant:             req.Tenant,
		Controls:           req.Controls,
		BridgeUrl:          req.BridgeUrl,
		BridgeWorkflow:     req.Workflow,
	}
	if req.Actor != nil {
		trigger.Actor = &req.Actor.SubscriberDefine
	}

	if req.Workflow == nil {
		workflow, err := application.DB.GetWorkflowByTriggerIdentifier(r.Context(), db.GetWorkflowByTriggerIdentifierParams{
			EnvironmentID:     environmentID,
			TriggerIdentifier: identifier,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJsonResponse(w, http.StatusNotFound, map[string]string{
					"error": fmt.Sprintf("workflow not found for trigger identifier: %s", identifier),
				})
				return req, app.TriggerContext{}, false
			}
			log(r.Context()).Error("Failed to resolve workflow", "error", err, "trigger_identifier", identifier)
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "Failed to resolve workflow"})
			return req, app.TriggerContext{}, false
		}
		if !workflow.Active {
			writeJsonResponse(w, http.StatusOK, TriggerEventResponse{
				Acknowledged:  true,
				Status:        "trigger_not_active",
				TransactionID: transactionID,
			})
			return req, app.TriggerContext{}, false
		}
		trigger.WorkflowID = workflow.ID
	}

	return req, trigger, true
}

func writeTriggerError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidRecipient *app.InvalidRecipientError
	if errors.As(err, &invalidRecipient) {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": invalidRecipient.Error()})
		return
	}
	log(r.Context()).Error("Failed to process trigger", "error", err)
	writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process trigger"})
}

func parseScopeID(s string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
