// Package dbtx binds gorm queries to a caller-owned *sql.Tx so services can
// keep the BeginTx / WithTx / Commit flow while repositories stay on gorm.
package dbtx

import (
	"context"
	"database/sql"
	"sort"

	"gorm.io/gorm"
)

// Conn returns a gorm handle for ctx that runs on tx when tx is non-nil.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}

// LockKeys takes transaction-scoped advisory locks in a stable order so two
// writers touching the same keys can never deadlock. Must run inside a tx.
func LockKeys(ctx context.Context, db *gorm.DB, tx *sql.Tx, keys ...string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	conn := Conn(ctx, db, tx)
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		if err := conn.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return err
		}
	}
	return nil
}
