package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

// The handlers' concurrency-sensitive checks run between statements of
// one transaction, so they are exercised against a scripted driver: each
// test declares the ordered statements it expects, with canned rows for
// the queries, and asserts afterwards which statements actually ran.

type dbStep struct {
	contains string           // substring the statement must carry
	cols     []string         // result columns (queries only)
	rows     [][]driver.Value // result rows (queries only)
	exec     bool             // statement is an exec, answered with one affected row
}

type dbScript struct {
	mu       sync.Mutex
	steps    []dbStep
	pos      int
	executed []string
}

func (s *dbScript) next(query string) (*dbStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, query)
	if s.pos >= len(s.steps) {
		return nil, fmt.Errorf("unexpected statement: %s", query)
	}
	st := &s.steps[s.pos]
	if !strings.Contains(query, st.contains) {
		return nil, fmt.Errorf("statement %d = %q, expected to contain %q", s.pos, query, st.contains)
	}
	s.pos++
	return st, nil
}

func (s *dbScript) ran(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.executed {
		if strings.Contains(q, substr) {
			return true
		}
	}
	return false
}

type scriptDriver struct {
	mu      sync.Mutex
	scripts map[string]*dbScript
}

var sharedScriptDriver = &scriptDriver{scripts: map[string]*dbScript{}}

func init() { sql.Register("dbscript", sharedScriptDriver) }

func (d *scriptDriver) Open(name string) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.scripts[name]
	if !ok {
		return nil, fmt.Errorf("no script registered under %q", name)
	}
	return &scriptConn{s: s}, nil
}

// openScripted registers the steps under the test's name and returns a
// *sql.DB whose connections all serve from that one ordered script.
func openScripted(t *testing.T, steps []dbStep) (*sql.DB, *dbScript) {
	t.Helper()
	s := &dbScript{steps: steps}
	sharedScriptDriver.mu.Lock()
	sharedScriptDriver.scripts[t.Name()] = s
	sharedScriptDriver.mu.Unlock()
	db, err := sql.Open("dbscript", t.Name())
	if err != nil {
		t.Fatalf("open scripted db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, s
}

type scriptConn struct {
	s *dbScript
}

func (c *scriptConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not scripted: %s", query)
}

func (c *scriptConn) Close() error { return nil }

func (c *scriptConn) Begin() (driver.Tx, error) { return scriptTx{}, nil }

func (c *scriptConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return scriptTx{}, nil
}

func (c *scriptConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	st, err := c.s.next(query)
	if err != nil {
		return nil, err
	}
	if st.exec {
		return nil, fmt.Errorf("scripted as exec, ran as query: %s", query)
	}
	return &scriptRows{cols: st.cols, rows: st.rows}, nil
}

func (c *scriptConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	st, err := c.s.next(query)
	if err != nil {
		return nil, err
	}
	if !st.exec {
		return nil, fmt.Errorf("scripted as query, ran as exec: %s", query)
	}
	return scriptResult{}, nil
}

type scriptTx struct{}

func (scriptTx) Commit() error   { return nil }
func (scriptTx) Rollback() error { return nil }

type scriptResult struct{}

func (scriptResult) LastInsertId() (int64, error) { return 1, nil }
func (scriptResult) RowsAffected() (int64, error) { return 1, nil }

type scriptRows struct {
	cols []string
	rows [][]driver.Value
	i    int
}

func (r *scriptRows) Columns() []string { return r.cols }
func (r *scriptRows) Close() error      { return nil }

func (r *scriptRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}
