package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/survey-app/api/internal/config"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/docstore"
	mongodoc "github.com/sngm3741/survey-app/api/internal/infrastructure/mongo"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/sqldoc"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
)

// Backend bundles the repositories of one storage driver with its lifecycle hooks.
type Backend struct {
	Polls    pollapp.PollRepository
	Failures pollapp.FailedNotificationRepository
	Ping     func(ctx context.Context) error
	Close    func(ctx context.Context) error
}

// OpenBackend は STORE_DRIVER に応じてストレージへ接続し、リポジトリを組み立てる。
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongoBackend(ctx, cfg)
	case config.DriverSQLite, config.DriverPostgres:
		dialect, err := sqldoc.DialectFor(cfg.StoreDriver)
		if err != nil {
			return nil, err
		}
		db, err := sqldoc.Open(ctx, dialect, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		return NewSQLBackend(db, dialect, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openMongoBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "MongoDB 接続に失敗しました")
	}

	db := client.Database(cfg.MongoDatabase)
	if err := mongodoc.EnsureIndexes(connectCtx, db, cfg.PollCollection, cfg.FailedNotificationCollection); err != nil {
		cfg.ServerLog.Printf("インデックス作成に失敗: %v", err)
	}

	return &Backend{
		Polls:    docstore.NewPollRepository(mongodoc.NewStore[docstore.PollDocument](db), cfg.PollCollection),
		Failures: docstore.NewFailedNotificationRepository(mongodoc.NewStore[docstore.FailedNotificationDocument](db), cfg.FailedNotificationCollection),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Disconnect(shutdownCtx)
		},
	}, nil
}

// NewSQLBackend wires the database/sql document store onto an open handle.
func NewSQLBackend(db *sql.DB, dialect sqldoc.Dialect, cfg config.Config) *Backend {
	return &Backend{
		Polls:    docstore.NewPollRepository(sqldoc.NewStore[docstore.PollDocument](db, dialect), cfg.PollCollection),
		Failures: docstore.NewFailedNotificationRepository(sqldoc.NewStore[docstore.FailedNotificationDocument](db, dialect), cfg.FailedNotificationCollection),
		Ping:     db.PingContext,
		Close: func(context.Context) error {
			return db.Close()
		},
	}
}
