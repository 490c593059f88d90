// Package store defines the durable-store collaborator contract the
// pipeline consumes, plus a monthly-CSV file implementation. Every
// operation surfaces a distinguishable failure instead of silently
// returning an empty or default result.
package store

import (
	"context"
	"time"

	"github.com/tallied-dev/tallied/internal/model"
)

// CommitAck acknowledges a durably committed mutation. Cache invalidation
// is ordered strictly after receiving one.
type CommitAck struct {
	Committed int
	At        time.Time
}

// Store is the durable persistence collaborator.
type Store interface {
	// GetTransactions returns the month's transactions. A month with no
	// data is a valid empty result; an unreadable store is an error.
	GetTransactions(ctx context.Context, month model.Month) ([]model.Transaction, error)

	// PutTransactions durably commits transactions (insert or replace by
	// ID). The ack is returned only once the data is committed.
	PutTransactions(ctx context.Context, txns []model.Transaction) (CommitAck, error)

	// DeleteTransaction removes one transaction by ID.
	DeleteTransaction(ctx context.Context, month model.Month, id string) (CommitAck, error)

	// GetSetting returns a setting value, or model.ErrSettingNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// PutSetting durably stores a setting.
	PutSetting(ctx context.Context, key, value string) error
}
