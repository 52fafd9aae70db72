package sqldoc

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect はドライバごとに異なるスキーマとプレースホルダ形式をまとめる。
type Dialect struct {
	Name       string
	DriverName string
	schema     string
	ordinal    bool
}

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		schema:     sqliteSchema,
	}
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		schema:     postgresSchema,
		ordinal:    true,
	}
)

// DialectFor は STORE_DRIVER の値から Dialect を解決する。
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported sql driver: %q", name)
}

// rebind は ? プレースホルダを $n 形式へ書き換える (Postgres 用)。
func (d Dialect) rebind(query string) string {
	if !d.ordinal {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
