// Package foreign holds host extension functions resolved after the core
// builtin table. They are additive: no language construct depends on them,
// and user functions may shadow them like any builtin.
package foreign

import (
	"sauravcode/internal/object"
)

// Builtins returns the host extension table for registration with an
// interpreter.
func Builtins() map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"db_connect":  fnDbConnect(),
		"db_query":    fnDbQuery(),
		"db_exec":     fnDbExec(),
		"db_begin":    fnDbBegin(),
		"db_commit":   fnDbCommit(),
		"db_rollback": fnDbRollback(),
		"db_close":    fnDbClose(),
	}
}
