package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx wraps fn in a database transaction. A nil db (unit tests running
// against in-memory fakes) degrades to calling fn directly; the repo fakes
// ignore the tx handle the same way real repos fall back to their own.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
