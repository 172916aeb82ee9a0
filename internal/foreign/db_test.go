package foreign

import (
	"fmt"
	"testing"

	"sauravcode/internal/object"
)

// testContext is a minimal BuiltinContext for driving the extension
// functions directly.
type testContext struct{}

func (testContext) NewError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
func (testContext) ReadLine(prompt string) (string, bool) { return "", false }
func (testContext) MaxLoopIterations() int                { return 1_000_000 }

func call(t *testing.T, name string, args ...object.Object) object.Object {
	t.Helper()
	builtin, ok := Builtins()[name]
	if !ok {
		t.Fatalf("no extension named %q", name)
	}
	return builtin.Fn(testContext{}, args...)
}

func mustNotError(t *testing.T, obj object.Object) object.Object {
	t.Helper()
	if err, ok := obj.(*object.Error); ok {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	return obj
}

func str(s string) *object.String { return &object.String{Value: s} }
func num(v float64) *object.Number { return &object.Number{Value: v} }

// a shared-cache DSN keeps every pooled connection on the same in-memory
// database; a plain :memory: DSN gives each connection its own
func memoryDSN(name string) *object.String {
	return str(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

func TestSQLiteRoundTrip(t *testing.T) {
	conn := mustNotError(t, call(t, "db_connect", memoryDSN("roundtrip"), str("sqlite3")))
	handle, ok := conn.(*object.Number)
	if !ok {
		t.Fatalf("expected a number handle, got %T", conn)
	}
	defer call(t, "db_close", handle)

	mustNotError(t, call(t, "db_exec", handle,
		str("CREATE TABLE words (id INTEGER PRIMARY KEY, word TEXT, score REAL)")))

	res := mustNotError(t, call(t, "db_exec", handle,
		str("INSERT INTO words (word, score) VALUES (?, ?)"), str("slug"), num(1.5)))
	resMap, ok := res.(*object.Map)
	if !ok {
		t.Fatalf("expected a map result, got %T", res)
	}
	affected, found := resMap.Get(str("rows_affected"))
	if !found || affected.(*object.Number).Value != 1 {
		t.Errorf("expected rows_affected 1, got %v", affected)
	}

	rows := mustNotError(t, call(t, "db_query", handle,
		str("SELECT word, score FROM words WHERE id = ?"), num(1)))
	list, ok := rows.(*object.List)
	if !ok {
		t.Fatalf("expected a list of rows, got %T", rows)
	}
	if len(list.Elements) != 1 {
		t.Fatalf("expected 1 row, got %d", len(list.Elements))
	}
	row := list.Elements[0].(*object.Map)
	word, _ := row.Get(str("word"))
	if word.Inspect() != "slug" {
		t.Errorf("expected word %q, got %q", "slug", word.Inspect())
	}
	score, _ := row.Get(str("score"))
	if n, ok := score.(*object.Number); !ok || n.Value != 1.5 {
		t.Errorf("expected score 1.5, got %s", score.Inspect())
	}
}

func TestTransactionRollback(t *testing.T) {
	conn := mustNotError(t, call(t, "db_connect", memoryDSN("rollback"), str("sqlite3")))
	handle := conn.(*object.Number)
	defer call(t, "db_close", handle)

	mustNotError(t, call(t, "db_exec", handle, str("CREATE TABLE t (n INTEGER)")))

	mustNotError(t, call(t, "db_begin", handle))
	mustNotError(t, call(t, "db_exec", handle, str("INSERT INTO t (n) VALUES (1)")))
	mustNotError(t, call(t, "db_rollback", handle))

	rows := mustNotError(t, call(t, "db_query", handle, str("SELECT n FROM t")))
	if list := rows.(*object.List); len(list.Elements) != 0 {
		t.Errorf("expected no rows after rollback, got %d", len(list.Elements))
	}
}

func TestInvalidHandle(t *testing.T) {
	res := call(t, "db_query", num(9999), str("SELECT 1"))
	err, ok := res.(*object.Error)
	if !ok {
		t.Fatalf("expected an error, got %T", res)
	}
	if err.Message != "invalid connection handle" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestConnectArgumentValidation(t *testing.T) {
	res := call(t, "db_connect", str(":memory:"))
	if _, ok := res.(*object.Error); !ok {
		t.Fatalf("expected an error for missing driver, got %T", res)
	}
}
