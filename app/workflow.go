package app

import (
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
)

// Channel types a workflow step can target.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSms   = "sms"
	ChannelPush  = "push"
	ChannelChat  = "chat"
)

// InAppProviderID is the built-in in-app provider. The in-app channel never
// goes through an integration lookup.
const InAppProviderID = "sprinkler-inbox"

// Workflow origins.
const (
	WorkflowOriginInternal = "internal"
	WorkflowOriginExternal = "external"
)

// Step is one channel step of a workflow. Persisted workflows store steps as
// a JSONB array in this shape; stateless workflows carry them inline on the
// trigger.
type Step struct {
	StepID        string          `json:"stepId"`
	Channel       string          `json:"channel"`
	ControlValues json.RawMessage `json:"controlValues,omitempty"`
	BridgeUrl     string          `json:"bridgeUrl,omitempty"`
}

// BridgeWorkflow is a stateless, code-first workflow definition supplied
// inline with a trigger instead of looked up from storage.
type BridgeWorkflow struct {
	WorkflowID string `json:"workflowId"`
	Name       string `json:"name,omitempty"`
	Steps      []Step `json:"steps"`
}

// StatelessControls carries per-step control-value overrides for stateless
// workflow executions, keyed by step ID.
type StatelessControls struct {
	Steps map[string]json.RawMessage `json:"steps"`
}

// resolvedWorkflow is the materializer's view of a workflow, whatever its
// provenance. ID is unset for a stateless workflow with no synced shadow
// record; jobs for such workflows persist with a NULL workflow id.
type resolvedWorkflow struct {
	ID         pgtype.UUID
	Identifier string
	Name       string
	Origin     string
	Steps      []Step
}

func decodeSteps(raw []byte) ([]Step, error) {
	var steps []Step
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}
