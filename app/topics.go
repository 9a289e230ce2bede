package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sweater-ventures/sprinkler/db"
)

// resolveTopics looks up topic records by key within an environment. Keys
// that resolve to nothing are logged and skipped: a trigger naming a
// non-existent topic is a no-op for that topic, never a trigger failure.
func resolveTopics(ctx context.Context, q db.Querier, organizationID, environmentID pgtype.UUID, topicKeys []string) ([]db.Topic, error) {
	if len(topicKeys) == 0 {
		return nil, nil
	}

	topics, err := q.GetTopicsByKeys(ctx, db.GetTopicsByKeysParams{
		EnvironmentID:  environmentID,
		OrganizationID: organizationID,
		Keys:           topicKeys,
	})
	if err != nil {
		return nil, err
	}

	if len(topics) < len(topicKeys) {
		found := make(map[string]bool, len(topics))
		for _, topic := range topics {
			found[topic.Key] = true
		}
		var missing []string
		for _, key := range topicKeys {
			if !found[key] {
				missing = append(missing, key)
			}
		}
		slog.Warn("Topics not found in current environment",
			"topic_keys", strings.Join(missing, ","),
			"environment_id", UuidToString(environmentID),
		)
	}

	return topics, nil
}
