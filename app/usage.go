package app

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
)

// incrIfExists bumps a counter only when the key is already present. Counter
// keys are provisioned out of band per billing period; a missing key means
// metering is not set up for that organization and the increment is a no-op.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
    return redis.call("INCRBY", KEYS[1], ARGV[1])
end
return false
`)

// UsageMeter records billable trigger volume against per-organization Redis
// counters. All operations are best effort; callers log and move on.
type UsageMeter struct {
	client *redis.Client
}

func NewUsageMeter(client *redis.Client) *UsageMeter {
	return &UsageMeter{client: client}
}

var _ UsageRecorder = (*UsageMeter)(nil)

// IncrIfExists atomically increments key by amount when the key exists.
// A missing key is not an error.
func (m *UsageMeter) IncrIfExists(ctx context.Context, key string, amount int64) error {
	err := incrIfExists.Run(ctx, m.client, []string{key}, amount).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// BuildUsageKey names the counter holding an organization's event volume for
// the current billing period.
func BuildUsageKey(organizationID pgtype.UUID) string {
	return "usage:" + UuidToString(organizationID) + ":events"
}
