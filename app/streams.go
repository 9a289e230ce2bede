package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sweater-ventures/sprinkler/db"
)

// The recipient streams page through potentially unbounded subscriber sets
// with an explicit cursor on a stable, indexed field. Each Next call fetches
// one batch and advances the cursor past the last-seen value, so records are
// visited exactly once per traversal even under concurrent inserts, and the
// consumer controls backpressure by the rate it calls Next.

// topicSubscriber is one item of the distinct topic-subscriber stream: an
// external subscriber ID plus every triggered topic it belongs to.
type topicSubscriber struct {
	SubscriberID string
	Topics       []TopicRef
}

// topicSubscriberStream yields distinct external subscriber IDs across the
// union of the given topics, excluding IDs already covered by direct
// recipients. Deduplication happens server-side; a subscriber in three of the
// triggered topics comes back once, annotated with all three.
type topicSubscriberStream struct {
	q              db.Querier
	environmentID  pgtype.UUID
	organizationID pgtype.UUID
	topicIDs       []pgtype.UUID
	topicsByID     map[[16]byte]TopicRef
	exclude        []string
	batchSize      int32
	cursor         string
	done           bool
}

func newTopicSubscriberStream(q db.Querier, organizationID, environmentID pgtype.UUID, topics []db.Topic, excludeSubscriberIDs []string, batchSize int) *topicSubscriberStream {
	topicIDs := make([]pgtype.UUID, 0, len(topics))
	topicsByID := make(map[[16]byte]TopicRef, len(topics))
	for _, topic := range topics {
		topicIDs = append(topicIDs, topic.ID)
		topicsByID[topic.ID.Bytes] = TopicRef{ID: topic.ID, Key: topic.Key}
	}
	if excludeSubscriberIDs == nil {
		// pgx needs a non-nil slice for the ANY() parameter
		excludeSubscriberIDs = []string{}
	}
	return &topicSubscriberStream{
		q:              q,
		environmentID:  environmentID,
		organizationID: organizationID,
		topicIDs:       topicIDs,
		topicsByID:     topicsByID,
		exclude:        excludeSubscriberIDs,
		batchSize:      int32(batchSize),
	}
}

// Next returns the next batch, or an empty batch once the stream is
// exhausted.
func (s *topicSubscriberStream) Next(ctx context.Context) ([]topicSubscriber, error) {
	if s.done || len(s.topicIDs) == 0 {
		return nil, nil
	}

	rows, err := s.q.ListDistinctTopicSubscribers(ctx, db.ListDistinctTopicSubscribersParams{
		EnvironmentID:        s.environmentID,
		OrganizationID:       s.organizationID,
		TopicIds:             s.topicIDs,
		ExcludeSubscriberIds: s.exclude,
		AfterSubscriberID:    s.cursor,
		PageLimit:            s.batchSize,
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		s.done = true
		return nil, nil
	}

	batch := make([]topicSubscriber, 0, len(rows))
	for _, row := range rows {
		item := topicSubscriber{SubscriberID: row.ExternalSubscriberID}
		for _, topicID := range row.TopicIds {
			if ref, ok := s.topicsByID[topicID.Bytes]; ok {
				item.Topics = append(item.Topics, ref)
			}
		}
		batch = append(batch, item)
	}

	s.cursor = rows[len(rows)-1].ExternalSubscriberID
	if len(rows) < int(s.batchSize) {
		s.done = true
	}
	return batch, nil
}

// broadcastStream pages through every subscriber in an environment, ordered
// by external subscriber ID.
type broadcastStream struct {
	q              db.Querier
	environmentID  pgtype.UUID
	organizationID pgtype.UUID
	fetchSize      int32
	cursor         string
	done           bool
}

func newBroadcastStream(q db.Querier, organizationID, environmentID pgtype.UUID, fetchSize int) *broadcastStream {
	return &broadcastStream{
		q:              q,
		environmentID:  environmentID,
		organizationID: organizationID,
		fetchSize:      int32(fetchSize),
	}
}

func (s *broadcastStream) Next(ctx context.Context) ([]db.Subscriber, error) {
	if s.done {
		return nil, nil
	}

	batch, err := s.q.ListSubscribersPage(ctx, db.ListSubscribersPageParams{
		EnvironmentID:  s.environmentID,
		OrganizationID: s.organizationID,
		SubscriberID:   s.cursor,
		Limit:          s.fetchSize,
	})
	if err != nil {
		return nil, err
	}

	if len(batch) == 0 {
		s.done = true
		return nil, nil
	}

	s.cursor = batch[len(batch)-1].SubscriberID
	if len(batch) < int(s.fetchSize) {
		s.done = true
	}
	return batch, nil
}
