package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sngm3741/survey-app/api/internal/infrastructure/docstore"
	_ "modernc.org/sqlite"
)

// Open はデータベースへ接続し、documents テーブルを用意する。
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "database connection failed")
	}
	// :memory: は接続ごとに別データベースになるため 1 接続に固定する
	if dialect.Name == SQLite.Name && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database ping failed")
	}
	if err := CreateSchema(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store は単一の documents テーブルに JSON ペイロードを保存する docstore.Store 実装。
type Store[T any] struct {
	db      *sql.DB
	dialect Dialect
}

func NewStore[T any](db *sql.DB, dialect Dialect) *Store[T] {
	return &Store[T]{db: db, dialect: dialect}
}

var _ docstore.Store[docstore.PollDocument] = (*Store[docstore.PollDocument])(nil)

func (s *Store[T]) Page(ctx context.Context, collection string, offset, limit int) ([]docstore.Document[T], error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT id, data, ts FROM documents
		WHERE collection = ?
		ORDER BY seq
		LIMIT ? OFFSET ?
	`), collection, limit, offset)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", collection)
	}
	defer rows.Close()

	docs := make([]docstore.Document[T], 0)
	for rows.Next() {
		var (
			id   string
			data []byte
			ts   int64
		)
		if err := rows.Scan(&id, &data, &ts); err != nil {
			return nil, errors.Wrapf(err, "scan %s document", collection)
		}
		var payload T
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, errors.Wrapf(err, "decode %s document %s", collection, id)
		}
		docs = append(docs, docstore.Document[T]{ID: id, Data: payload, TS: time.Unix(0, ts).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", collection)
	}
	return docs, nil
}

func (s *Store[T]) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT COUNT(*) FROM documents WHERE collection = ?`), collection).Scan(&n)
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", collection)
	}
	return n, nil
}

func (s *Store[T]) Create(ctx context.Context, collection string, data T) (docstore.Document[T], error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return docstore.Document[T]{}, errors.Wrapf(err, "encode %s document", collection)
	}
	doc := docstore.Document[T]{
		ID:   uuid.NewString(),
		Data: data,
		TS:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO documents (id, collection, data, ts)
		VALUES (?, ?, ?, ?)
	`), doc.ID, collection, string(payload), doc.TS.UnixNano())
	if err != nil {
		return docstore.Document[T]{}, errors.Wrapf(err, "insert into %s", collection)
	}
	return doc, nil
}
