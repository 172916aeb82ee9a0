package foreign

import (
	"database/sql"
	"fmt"
	"time"

	"sauravcode/internal/object"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connection handles are plain numbers on the language side; the tables
// below map them back to live connections and their open transactions.
// Execution is single-threaded, so no locking is needed.
var (
	dbConnections  = map[int64]*sql.DB{}
	dbTransactions = map[int64]*sql.Tx{}
	nextHandle     int64
)

func fnDbConnect() *object.Builtin {
	return &object.Builtin{
		Name: "db_connect",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("db_connect expects 2 arguments: connection string, driver")
			}
			connStr, ok := args[0].(*object.String)
			if !ok {
				return ctx.NewError("db_connect expects a string connection string")
			}
			driver, ok := args[1].(*object.String)
			if !ok {
				return ctx.NewError("db_connect expects a string driver name")
			}

			db, err := sql.Open(driver.Value, connStr.Value)
			if err != nil {
				return ctx.NewError("failed to open connection: %v", err)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return ctx.NewError("failed to ping database: %v", err)
			}

			nextHandle++
			dbConnections[nextHandle] = db
			return &object.Number{Value: float64(nextHandle)}
		},
	}
}

func fnDbQuery() *object.Builtin {
	return &object.Builtin{
		Name: "db_query",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) < 2 {
				return ctx.NewError("db_query expects at least 2 arguments: connection, sql")
			}
			id, query, errObj := connectionAndQuery(ctx, "db_query", args)
			if errObj != nil {
				return errObj
			}
			db, ok := dbConnections[id]
			if !ok {
				return ctx.NewError("invalid connection handle")
			}
			params := bindParams(args[2:])

			var rows *sql.Rows
			var err error
			if tx, inTx := dbTransactions[id]; inTx {
				rows, err = tx.Query(query, params...)
			} else {
				rows, err = db.Query(query, params...)
			}
			if err != nil {
				return ctx.NewError("query failed: %v", err)
			}
			defer rows.Close()

			return renderRows(rows)
		},
	}
}

func fnDbExec() *object.Builtin {
	return &object.Builtin{
		Name: "db_exec",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) < 2 {
				return ctx.NewError("db_exec expects at least 2 arguments: connection, sql")
			}
			id, query, errObj := connectionAndQuery(ctx, "db_exec", args)
			if errObj != nil {
				return errObj
			}
			db, ok := dbConnections[id]
			if !ok {
				return ctx.NewError("invalid connection handle")
			}
			params := bindParams(args[2:])

			var result sql.Result
			var err error
			if tx, inTx := dbTransactions[id]; inTx {
				result, err = tx.Exec(query, params...)
			} else {
				result, err = db.Exec(query, params...)
			}
			if err != nil {
				return ctx.NewError("exec failed: %v", err)
			}

			affected, _ := result.RowsAffected()
			lastID, _ := result.LastInsertId()

			res := object.NewMap()
			res.Put(&object.String{Value: "rows_affected"}, &object.Number{Value: float64(affected)})
			res.Put(&object.String{Value: "last_insert_id"}, &object.Number{Value: float64(lastID)})
			return res
		},
	}
}

func fnDbBegin() *object.Builtin {
	return &object.Builtin{
		Name: "db_begin",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("db_begin expects 1 argument: connection")
			}
			id, errObj := handleArg(ctx, "db_begin", args[0])
			if errObj != nil {
				return errObj
			}
			db, ok := dbConnections[id]
			if !ok {
				return ctx.NewError("invalid connection handle")
			}
			tx, err := db.Begin()
			if err != nil {
				return ctx.NewError("failed to begin transaction: %v", err)
			}
			dbTransactions[id] = tx
			return args[0]
		},
	}
}

func fnDbCommit() *object.Builtin {
	return &object.Builtin{
		Name: "db_commit",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("db_commit expects 1 argument: connection")
			}
			id, errObj := handleArg(ctx, "db_commit", args[0])
			if errObj != nil {
				return errObj
			}
			tx, ok := dbTransactions[id]
			if !ok {
				return ctx.NewError("invalid transaction handle")
			}
			if err := tx.Commit(); err != nil {
				return ctx.NewError("failed to commit transaction: %v", err)
			}
			delete(dbTransactions, id)
			return args[0]
		},
	}
}

func fnDbRollback() *object.Builtin {
	return &object.Builtin{
		Name: "db_rollback",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("db_rollback expects 1 argument: connection")
			}
			id, errObj := handleArg(ctx, "db_rollback", args[0])
			if errObj != nil {
				return errObj
			}
			tx, ok := dbTransactions[id]
			if !ok {
				return ctx.NewError("invalid transaction handle")
			}
			if err := tx.Rollback(); err != nil {
				return ctx.NewError("failed to rollback transaction: %v", err)
			}
			delete(dbTransactions, id)
			return args[0]
		},
	}
}

func fnDbClose() *object.Builtin {
	return &object.Builtin{
		Name: "db_close",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("db_close expects 1 argument: connection")
			}
			id, errObj := handleArg(ctx, "db_close", args[0])
			if errObj != nil {
				return errObj
			}
			if tx, ok := dbTransactions[id]; ok {
				tx.Rollback()
				delete(dbTransactions, id)
			}
			if db, ok := dbConnections[id]; ok {
				db.Close()
				delete(dbConnections, id)
			}
			return object.NIL
		},
	}
}

func handleArg(ctx object.BuiltinContext, name string, arg object.Object) (int64, *object.Error) {
	num, ok := arg.(*object.Number)
	if !ok {
		return 0, ctx.NewError("%s expects a number connection handle", name)
	}
	return int64(num.Value), nil
}

func connectionAndQuery(ctx object.BuiltinContext, name string, args []object.Object) (int64, string, *object.Error) {
	id, errObj := handleArg(ctx, name, args[0])
	if errObj != nil {
		return 0, "", errObj
	}
	query, ok := args[1].(*object.String)
	if !ok {
		return 0, "", ctx.NewError("%s expects a string statement", name)
	}
	return id, query.Value, nil
}

// bindParams converts language values to driver parameter values.
// Integer-valued numbers bind as integers so that integer columns match.
func bindParams(args []object.Object) []interface{} {
	params := make([]interface{}, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *object.Number:
			if v.Value == float64(int64(v.Value)) {
				params[i] = int64(v.Value)
			} else {
				params[i] = v.Value
			}
		case *object.String:
			params[i] = v.Value
		case *object.Boolean:
			params[i] = v.Value
		case *object.Nil:
			params[i] = nil
		default:
			params[i] = arg.Inspect()
		}
	}
	return params
}

// renderRows maps a result set onto a list of maps, one per row, columns in
// select order.
func renderRows(rows *sql.Rows) object.Object {
	columns, _ := rows.Columns()
	types, _ := rows.ColumnTypes()
	resultRows := []object.Object{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		rows.Scan(pointers...)

		rowMap := object.NewMap()
		for i, col := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			rowMap.Put(&object.String{Value: col}, mapValue(values[i], typeName))
		}
		resultRows = append(resultRows, rowMap)
	}
	return &object.List{Elements: resultRows}
}

func mapValue(v interface{}, dbType string) object.Object {
	if v == nil {
		return object.NIL
	}
	switch x := v.(type) {
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		// drivers report text columns as []byte; only BLOB-like types
		// stay opaque, rendered as their length for lack of a bytes type
		switch dbType {
		case "BLOB", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB", "BINARY", "VARBINARY":
			return &object.String{Value: fmt.Sprintf("<%d bytes>", len(x))}
		default:
			return &object.String{Value: string(x)}
		}
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NativeBoolToBoolean(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
