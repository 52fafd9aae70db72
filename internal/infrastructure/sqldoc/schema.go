package sqldoc

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// CreateSchema は documents テーブルとインデックスを作成する。複数回呼んでも問題ない。
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    collection TEXT NOT NULL,
    data TEXT NOT NULL,
    ts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    collection TEXT NOT NULL,
    data JSONB NOT NULL,
    ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
`
