package docstore

import (
	"context"
	"time"
)

// Document はストアが採番した ID と保存時刻をペイロードに付けたもの。
type Document[T any] struct {
	ID   string
	Data T
	TS   time.Time
}

// Store はコレクション名で区切られたドキュメントストア。
// Page は挿入順に offset 件を飛ばして返す。limit <= 0 の場合は残り全件を返す。
type Store[T any] interface {
	Page(ctx context.Context, collection string, offset, limit int) ([]Document[T], error)
	Count(ctx context.Context, collection string) (int, error)
	Create(ctx context.Context, collection string, data T) (Document[T], error)
}
