package media

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubConn stands in for a database connection in pipeline tests. Queries
// are answered with canned rows keyed by a distinctive fragment of the SQL,
// and every statement is recorded for assertions.
type stubConn struct {
	t *testing.T

	// Rows returned for queries containing the fragment, positional per the
	// query's columns. Nil values are allowed and map to NULL.
	results map[string][][]any

	execs []recordedStatement
}

type recordedStatement struct {
	sql  string
	args []any
}

func (c *stubConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	for fragment, rows := range c.results {
		if strings.Contains(sql, fragment) {
			return &stubRows{rows: rows}, nil
		}
	}
	c.t.Fatalf("no stubbed result for query: %s", sql)
	return nil, nil
}

func (c *stubConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.t.Fatalf("unexpected QueryRow: %s", sql)
	return nil
}

func (c *stubConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, recordedStatement{sql, args})
	return pgconn.CommandTag{}, nil
}

func (c *stubConn) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	c.t.Fatalf("unexpected CopyFrom into %v", tableName)
	return 0, nil
}

func (c *stubConn) Begin(ctx context.Context) (pgx.Tx, error) {
	c.t.Fatal("unexpected Begin")
	return nil, nil
}

func (c *stubConn) execsMatching(fragment string) []recordedStatement {
	var matched []recordedStatement
	for _, e := range c.execs {
		if strings.Contains(e.sql, fragment) {
			matched = append(matched, e)
		}
	}
	return matched
}

// stubRows implements just enough of pgx.Rows for the db query helpers,
// which advance with Next and read whole rows through Values.
type stubRows struct {
	rows [][]any
	idx  int
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Values() ([]any, error) { return r.rows[r.idx-1], nil }

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Scan(dest ...any) error                       { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }
