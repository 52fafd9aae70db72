package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// wrappedDocument は MongoDB 上のドキュメント形状 {_id, data, ts} を表す。
type wrappedDocument[T any] struct {
	ID   primitive.ObjectID `bson:"_id"`
	Data T                  `bson:"data"`
	TS   time.Time          `bson:"ts"`
}

// Store implements docstore.Store using one MongoDB collection per collection name.
type Store[T any] struct {
	db *mongo.Database
}

// NewStore creates a Mongo-backed document store for payloads of type T.
func NewStore[T any](db *mongo.Database) *Store[T] {
	return &Store[T]{db: db}
}

var _ docstore.Store[docstore.PollDocument] = (*Store[docstore.PollDocument])(nil)

// Page は挿入順 (ts, _id) に並べ、Skip/Limit をサーバー側で適用して返す。
func (s *Store[T]) Page(ctx context.Context, collection string, offset, limit int) ([]docstore.Document[T], error) {
	opts := options.Find().SetSort(bson.D{{Key: "ts", Value: 1}, {Key: "_id", Value: 1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	defer cursor.Close(ctx)

	docs := make([]docstore.Document[T], 0)
	for cursor.Next(ctx) {
		var doc wrappedDocument[T]
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrapf(err, "decode %s document", collection)
		}
		docs = append(docs, docstore.Document[T]{ID: doc.ID.Hex(), Data: doc.Data, TS: doc.TS})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", collection)
	}
	return docs, nil
}

func (s *Store[T]) Count(ctx context.Context, collection string) (int, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", collection)
	}
	return int(n), nil
}

// Create は ObjectID と ts を採番して 1 ドキュメントを挿入する。
func (s *Store[T]) Create(ctx context.Context, collection string, data T) (docstore.Document[T], error) {
	doc := wrappedDocument[T]{
		ID:   primitive.NewObjectID(),
		Data: data,
		TS:   time.Now().UTC(),
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return docstore.Document[T]{}, errors.Wrapf(err, "insert into %s", collection)
	}
	return docstore.Document[T]{ID: doc.ID.Hex(), Data: doc.Data, TS: doc.TS}, nil
}

// EnsureIndexes は一覧の並び順に使う ts インデックスを作成する。
func EnsureIndexes(ctx context.Context, db *mongo.Database, collections ...string) error {
	for _, name := range collections {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "ts", Value: 1}, {Key: "_id", Value: 1}},
		})
		if err != nil {
			return errors.Wrapf(err, "create index on %s", name)
		}
	}
	return nil
}
