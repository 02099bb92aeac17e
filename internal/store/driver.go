package store

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the sqlite3 driver with the store's SQL functions added.
// Open databases with it instead of the plain "sqlite3" name.
const DriverName = "sqlite3_blog"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// sqlite's LOWER only folds ASCII.
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}
