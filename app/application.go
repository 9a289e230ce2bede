package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sweater-ventures/sprinkler/config"
	"github.com/sweater-ventures/sprinkler/db"
)

type Application struct {
	Config      config.AppConfig
	DB          db.Querier
	Queue       *QueueService
	Dispatcher  *Dispatcher
	Usage       *UsageMeter
	dbconn      *pgxpool.Pool
	stopWorkers func()
}

func NewApp(config *config.AppConfig) (*Application, error) {
	conn, err := connectToDB(config)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return nil, err
	}
	queries := db.New(conn)

	var usage *UsageMeter
	if config.UsageMetering {
		usage = NewUsageMeter(redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}))
		slog.Info("Usage metering enabled", "redis_addr", config.RedisAddr)
	}

	queue := NewQueueService(queries)

	return &Application{
		Config: *config,
		DB:     queries,
		Queue:  queue,
		Dispatcher: NewDispatcher(queries, queue, usage, DispatchConfig{
			MulticastChunkSize: config.MulticastChunkSize,
			BroadcastChunkSize: config.BroadcastChunkSize,
			TopicBatchSize:     config.TopicBatchSize,
			BroadcastFetchSize: config.BroadcastFetchSize,
			UsageMetering:      config.UsageMetering,
		}),
		Usage:       usage,
		dbconn:      conn,
		stopWorkers: func() {},
	}, nil
}

func (a *Application) SetStopWorkers(fn func()) {
	a.stopWorkers = fn
}

func (a *Application) StopWorkers() {
	a.stopWorkers()
}
