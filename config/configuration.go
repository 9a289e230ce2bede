package config

import (
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	DevMode    bool   `arg:"--dev,env:DEV_MODE" default:"false"`
	Port       int    `arg:"-p,--port,env:LISTEN_PORT" default:"8006"`
	LogLevel   string `arg:"--log-level,env:LOG_LEVEL" default:"default" help:"Log level to use.  Valid values are: debug, info, and warn/warning.  If default the level will be info or debug in dev mode."`
	DBHost     string `arg:"--db-host,env:DB_HOST" default:"localhost"`
	DBName     string `arg:"--db-name,env:DB_NAME" default:"sprinkler"`
	DBPort     int    `arg:"--db-port,env:DB_PORT" default:"5432"`
	DBMaxConns int    `arg:"--db-max-conns,env:DB_MAX_CONNS" default:"10"`
	DBMinConns int    `arg:"--db-min-conns,env:DB_MIN_CONNS" default:"1"`
	DBSSLMode  string `arg:"--db-ssl-mode,env:DB_SSL_MODE" default:"disable"`
	DBUsername string `arg:"--db-username,env:DB_USERNAME" default:"sprinkler"`
	DBPassword string `arg:"--db-password,env:DB_PASSWORD" default:"badpassword"`

	// Fan-out batching. Chunk sizes bound queue write bursts; the broadcast
	// fetch size bounds how many subscriber rows one cursor read pulls in.
	MulticastChunkSize int `arg:"--multicast-chunk-size,env:MULTICAST_QUEUE_CHUNK_SIZE" default:"100" help:"Queue submission chunk size for multicast triggers."`
	BroadcastChunkSize int `arg:"--broadcast-chunk-size,env:BROADCAST_QUEUE_CHUNK_SIZE" default:"100" help:"Queue submission chunk size for broadcast triggers."`
	TopicBatchSize     int `arg:"--topic-batch-size,env:TOPIC_DISTINCT_BATCH_SIZE" default:"100" help:"Batch size for the distinct topic-subscriber stream."`
	BroadcastFetchSize int `arg:"--broadcast-fetch-size,env:BROADCAST_FETCH_SIZE" default:"500" help:"Cursor fetch size for the broadcast subscriber stream."`

	// Subscriber-process worker pool.
	QueueWorkers      int `arg:"--queue-workers,env:QUEUE_WORKERS" default:"4" help:"Concurrent subscriber-process workers."`
	QueueClaimSize    int `arg:"--queue-claim-size,env:QUEUE_CLAIM_SIZE" default:"50" help:"Queue entries claimed per poll."`
	QueuePollMillis   int `arg:"--queue-poll-millis,env:QUEUE_POLL_MILLIS" default:"250" help:"Queue poll interval in milliseconds when idle."`
	QueueMaxAttempts  int `arg:"--queue-max-attempts,env:QUEUE_MAX_ATTEMPTS" default:"3" help:"Processing attempts before a queue entry is parked as dead."`
	QueueStaleMinutes int `arg:"--queue-stale-minutes,env:QUEUE_STALE_MINUTES" default:"5" help:"Claimed entries older than this are requeued."`

	// Usage metering (best-effort, feature-gated).
	UsageMetering bool   `arg:"--usage-metering,env:USAGE_METERING" default:"false" help:"Increment per-organization usage counters after queue submission."`
	RedisAddr     string `arg:"--redis-addr,env:REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `arg:"--redis-password,env:REDIS_PASSWORD" default:""`
	RedisDB       int    `arg:"--redis-db,env:REDIS_DB" default:"0"`
}

func LoadConfig() (*AppConfig, error) {
	var appConfig AppConfig
	arg.MustParse(&appConfig)

	if appConfig.DevMode {
		err := godotenv.Load(".env")
		if err == nil {
			// re-parse to get env vars from .env
			slog.Info("Loaded .env")
			arg.MustParse(&appConfig)
		}
	}

	if appConfig.LogLevel == "default" {
		if appConfig.DevMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
	} else {
		intendedLevel := strings.ToLower(appConfig.LogLevel)
		switch intendedLevel {
		case "debug":
			logLevel.Set(slog.LevelDebug)
		case "info":
			logLevel.Set(slog.LevelInfo)
		case "warn", "warning":
			logLevel.Set(slog.LevelWarn)
		default:
			slog.Error("Unable to configure log level", "level", appConfig.LogLevel)
		}
	}

	return &appConfig, nil
}
