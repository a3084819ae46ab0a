package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

var callbackSeq atomic.Int64

type registerFunc func(name string, hook func(*gorm.DB)) error

// BeforeQuery runs fn just before the nth query (1-based) that reads table.
func BeforeQuery(t testing.TB, db *gorm.DB, table string, nth int, fn func(tx *gorm.DB) error) {
	t.Helper()
	registerHook(t, table, nth, fn, func(name string, hook func(*gorm.DB)) error {
		return db.Callback().Query().Before("gorm:query").Register(name, hook)
	})
}

// AfterQuery runs fn right after the nth query (1-based) that reads table. This
// is how tests slip a concurrent writer in between a check and the write it guards.
func AfterQuery(t testing.TB, db *gorm.DB, table string, nth int, fn func(tx *gorm.DB) error) {
	t.Helper()
	registerHook(t, table, nth, fn, func(name string, hook func(*gorm.DB)) error {
		return db.Callback().Query().After("gorm:query").Register(name, hook)
	})
}

// BeforeUpdate runs fn just before the nth update (1-based) of table.
func BeforeUpdate(t testing.TB, db *gorm.DB, table string, nth int, fn func(tx *gorm.DB) error) {
	t.Helper()
	registerHook(t, table, nth, fn, func(name string, hook func(*gorm.DB)) error {
		return db.Callback().Update().Before("gorm:update").Register(name, hook)
	})
}

func registerHook(t testing.TB, table string, nth int, fn func(tx *gorm.DB) error, register registerFunc) {
	t.Helper()

	seen := 0
	hook := func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		seen++
		if seen != nth {
			return
		}
		// Same connection or transaction as the statement; a "record not found"
		// left by a query must not suppress fn's statements.
		h := tx.Session(&gorm.Session{NewDB: true})
		h.Error = nil
		if err := fn(h); err != nil {
			t.Errorf("hook on %s: %v", table, err)
		}
	}

	name := fmt.Sprintf("testutil:hook_%d", callbackSeq.Add(1))
	if err := register(name, hook); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}
