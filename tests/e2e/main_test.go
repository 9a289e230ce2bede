package e2e

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweater-ventures/sprinkler/api"
	"github.com/sweater-ventures/sprinkler/app"
	"github.com/sweater-ventures/sprinkler/config"
	"github.com/sweater-ventures/sprinkler/db"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("skipping e2e tests (-short flag)")
		os.Exit(0)
	}

	postgres := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(15433).
			Database("sprinkler_test"),
	)

	if err := postgres.Start(); err != nil {
		log.Fatalf("failed to start embedded postgres: %v", err)
	}

	pool, err := pgxpool.New(context.Background(),
		"host=localhost port=15433 user=postgres password=postgres dbname=sprinkler_test sslmode=disable",
	)
	if err != nil {
		postgres.Stop()
		log.Fatalf("failed to connect to embedded postgres: %v", err)
	}

	if err := applySchema(pool); err != nil {
		pool.Close()
		postgres.Stop()
		log.Fatalf("failed to apply schema: %v", err)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	if err := postgres.Stop(); err != nil {
		log.Printf("warning: failed to stop embedded postgres: %v", err)
	}
	os.Exit(code)
}

func applySchema(pool *pgxpool.Pool) error {
	content, err := os.ReadFile(filepath.Join("..", "..", "sql", "schema.sql"))
	if err != nil {
		return fmt.Errorf("reading schema.sql: %w", err)
	}
	if _, err := pool.Exec(context.Background(), string(content)); err != nil {
		return fmt.Errorf("executing schema.sql: %w", err)
	}
	return nil
}

// truncateAll truncates all tables in the correct FK order.
func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		"TRUNCATE jobs, queue_entries, topic_subscribers, topics, integrations, workflows, subscribers CASCADE",
	)
	if err != nil {
		t.Fatalf("truncateAll: %v", err)
	}
}

// newTestApp returns an *app.Application wired to the real embedded database.
func newTestApp(t *testing.T) *app.Application {
	t.Helper()
	queries := db.New(testPool)
	queue := app.NewQueueService(queries)
	cfg := config.AppConfig{
		MulticastChunkSize: 100,
		BroadcastChunkSize: 100,
		TopicBatchSize:     100,
		BroadcastFetchSize: 500,
		QueueWorkers:       2,
		QueueClaimSize:     50,
		QueuePollMillis:    10,
		QueueMaxAttempts:   3,
		QueueStaleMinutes:  5,
	}
	return &app.Application{
		Config: cfg,
		DB:     queries,
		Queue:  queue,
		Dispatcher: app.NewDispatcher(queries, queue, nil, app.DispatchConfig{
			MulticastChunkSize: cfg.MulticastChunkSize,
			BroadcastChunkSize: cfg.BroadcastChunkSize,
			TopicBatchSize:     cfg.TopicBatchSize,
			BroadcastFetchSize: cfg.BroadcastFetchSize,
		}),
	}
}

// newTestRouter returns an *http.ServeMux with API routes registered.
func newTestRouter(t *testing.T, sprinkler *app.Application) *http.ServeMux {
	t.Helper()
	router := http.NewServeMux()
	api.AddApis(sprinkler, router)
	return router
}

// newUUID returns a pgtype.UUID with a new random UUID.
func newUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

func uuidString(u pgtype.UUID) string {
	return uuid.UUID(u.Bytes).String()
}

// drainQueue claims and materializes queue entries until the queue is empty.
// Processing is synchronous so tests stay deterministic.
func drainQueue(t *testing.T, queries db.Querier) {
	t.Helper()
	materializer := app.NewMaterializer(queries)
	for {
		entries, err := queries.ClaimQueueEntries(context.Background(), 100)
		if err != nil {
			t.Fatalf("drainQueue claim: %v", err)
		}
		if len(entries) == 0 {
			return
		}
		for _, entry := range entries {
			var payload app.SubscriberProcessPayload
			if err := json.Unmarshal(entry.Data, &payload); err != nil {
				t.Fatalf("drainQueue decode %s: %v", entry.Name, err)
			}
			if err := materializer.Process(context.Background(), payload); err != nil {
				t.Fatalf("drainQueue process %s: %v", entry.Name, err)
			}
			if err := queries.CompleteQueueEntry(context.Background(), entry.ID); err != nil {
				t.Fatalf("drainQueue complete %s: %v", entry.Name, err)
			}
		}
	}
}

// seedWorkflow inserts a workflow directly into the database.
func seedWorkflow(t *testing.T, queries db.Querier, environmentID, organizationID pgtype.UUID, identifier string, steps string) db.Workflow {
	t.Helper()
	workflow, err := queries.InsertWorkflow(context.Background(), db.InsertWorkflowParams{
		ID:                newUUID(),
		EnvironmentID:     environmentID,
		OrganizationID:    organizationID,
		TriggerIdentifier: identifier,
		Name:              identifier,
		Origin:            "internal",
		Active:            true,
		Steps:             []byte(steps),
	})
	if err != nil {
		t.Fatalf("seedWorkflow: %v", err)
	}
	return workflow
}

// seedSubscriber inserts a subscriber profile directly into the database.
func seedSubscriber(t *testing.T, queries db.Querier, environmentID, organizationID pgtype.UUID, subscriberID string) db.Subscriber {
	t.Helper()
	subscriber, err := queries.UpsertSubscriber(context.Background(), db.UpsertSubscriberParams{
		ID:             newUUID(),
		EnvironmentID:  environmentID,
		OrganizationID: organizationID,
		SubscriberID:   subscriberID,
	})
	if err != nil {
		t.Fatalf("seedSubscriber: %v", err)
	}
	return subscriber
}

// seedTopic inserts a topic and its members directly into the database.
func seedTopic(t *testing.T, queries db.Querier, environmentID, organizationID pgtype.UUID, key string, members ...string) db.Topic {
	t.Helper()
	topic, err := queries.InsertTopic(context.Background(), db.InsertTopicParams{
		ID:             newUUID(),
		EnvironmentID:  environmentID,
		OrganizationID: organizationID,
		Key:            key,
	})
	if err != nil {
		t.Fatalf("seedTopic: %v", err)
	}
	for _, member := range members {
		err := queries.AddTopicSubscriber(context.Background(), db.AddTopicSubscriberParams{
			TopicID:              topic.ID,
			EnvironmentID:        environmentID,
			OrganizationID:       organizationID,
			ExternalSubscriberID: member,
		})
		if err != nil {
			t.Fatalf("seedTopic member %s: %v", member, err)
		}
	}
	return topic
}

// seedIntegration inserts an active integration directly into the database.
func seedIntegration(t *testing.T, queries db.Querier, environmentID, organizationID pgtype.UUID, channel, providerID string) db.Integration {
	t.Helper()
	integration, err := queries.InsertIntegration(context.Background(), db.InsertIntegrationParams{
		ID:             newUUID(),
		EnvironmentID:  environmentID,
		OrganizationID: organizationID,
		Channel:        channel,
		ProviderID:     providerID,
		Active:         true,
	})
	if err != nil {
		t.Fatalf("seedIntegration: %v", err)
	}
	return integration
}
