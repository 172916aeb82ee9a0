package object

import (
	"log/slog"
)

// Env is the interpreter's variable table. It is deliberately flat: the
// language has no lexical scoping. A function call snapshots the table,
// mutates it live while the body runs, and restores the snapshot on every
// exit path.
type Env struct {
	bindings map[string]Object
}

func NewEnv() *Env {
	return &Env{bindings: make(map[string]Object)}
}

func (e *Env) Get(name string) (Object, bool) {
	obj, ok := e.bindings[name]
	return obj, ok
}

func (e *Env) Set(name string, val Object) {
	slog.Debug("env set", slog.String("name", name), slog.String("type", string(val.Type())))
	e.bindings[name] = val
}

func (e *Env) Has(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

func (e *Env) Len() int { return len(e.bindings) }

// Names returns the bound names; order is unspecified.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	return names
}

// Snapshot shallow-copies the table. Values are shared: a list mutated by a
// callee stays mutated after restore, only the name bindings roll back.
func (e *Env) Snapshot() map[string]Object {
	snap := make(map[string]Object, len(e.bindings))
	for name, val := range e.bindings {
		snap[name] = val
	}
	return snap
}

// Restore reinstates a snapshot taken with Snapshot.
func (e *Env) Restore(snap map[string]Object) {
	slog.Debug("env restore", slog.Int("bindings", len(snap)))
	e.bindings = snap
}
