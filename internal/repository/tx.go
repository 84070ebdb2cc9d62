package repository

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"hotelstay/internal/pkg/errs"
)

// Tx exposes the repositories bound to one database transaction.
type Tx struct {
	Rooms    *RoomRepository
	Stays    *StayRepository
	Activity *ActivityRepository
}

func newTx(db *gorm.DB) *Tx {
	return &Tx{
		Rooms:    NewRoomRepository(db),
		Stays:    NewStayRepository(db),
		Activity: NewActivityRepository(db),
	}
}

type TxManager struct {
	db          *gorm.DB
	maxRetries  int
	baseBackoff time.Duration
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{
		db:          db,
		maxRetries:  3,
		baseBackoff: 20 * time.Millisecond,
	}
}

// Within runs fn in a transaction. Serialization failures and deadlocks are
// retried with exponential backoff; any other error is returned as is.
func (m *TxManager) Within(ctx context.Context, fn func(tx *Tx) error) error {
	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			wait := m.baseBackoff * time.Duration(1<<(attempt-1))
			slog.WarnContext(ctx, "retrying transaction", "attempt", attempt, "backoff", wait, "error", err)
			select {
			case <-ctx.Done():
				return errs.Persistence(ctx.Err(), "transaction cancelled")
			case <-time.After(wait):
			}
		}

		err = m.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			return fn(newTx(db))
		})
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			if errs.KindOf(err) == "INTERNAL_ERROR" {
				return errs.Persistence(err, "transaction")
			}
			return err
		}
	}
	return errs.Persistence(err, "transaction retries exhausted")
}
