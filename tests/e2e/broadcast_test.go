package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastEndToEnd(t *testing.T) {
	truncateAll(t)
	sprinkler := newTestApp(t)
	router := newTestRouter(t, sprinkler)
	queries := sprinkler.DB

	environmentID := newUUID()
	organizationID := newUUID()

	seedWorkflow(t, queries, environmentID, organizationID, "announcement", `[{"stepId":"inbox","channel":"in_app"}]`)
	for _, subscriberID := range []string{"alice", "bob", "carol"} {
		seedSubscriber(t, queries, environmentID, organizationID, subscriberID)
	}
	// Subscribers in another environment stay untouched.
	seedSubscriber(t, queries, newUUID(), organizationID, "outsider")

	rec := postTrigger(t, router, "/api/v1/events/trigger/broadcast", map[string]any{
		"name":           "announcement",
		"transactionId":  "tx-broadcast",
		"environmentId":  uuidString(environmentID),
		"organizationId": uuidString(organizationID),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	drainQueue(t, queries)

	jobs, err := queries.ListJobsForTransaction(context.Background(), "tx-broadcast")
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	seen := map[string]bool{}
	for _, job := range jobs {
		seen[job.ExternalSubscriberID] = true
		assert.Equal(t, "sprinkler-inbox", job.ProviderID.String)
		assert.Equal(t, "inbox", job.StepID)
	}
	assert.Equal(t, map[string]bool{"alice": true, "bob": true, "carol": true}, seen)
}

func TestBroadcastEmptyEnvironment(t *testing.T) {
	truncateAll(t)
	sprinkler := newTestApp(t)
	router := newTestRouter(t, sprinkler)
	queries := sprinkler.DB

	environmentID := newUUID()
	organizationID := newUUID()
	seedWorkflow(t, queries, environmentID, organizationID, "announcement", `[{"stepId":"inbox","channel":"in_app"}]`)

	rec := postTrigger(t, router, "/api/v1/events/trigger/broadcast", map[string]any{
		"name":           "announcement",
		"transactionId":  "tx-empty",
		"environmentId":  uuidString(environmentID),
		"organizationId": uuidString(organizationID),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	jobs, err := queries.ListJobsForTransaction(context.Background(), "tx-empty")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
