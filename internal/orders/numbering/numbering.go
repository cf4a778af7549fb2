package numbering

import (
	"context"
	"fmt"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"gorm.io/gorm"
)

// The increment and the read-back must be a single statement so that
// concurrent order creation can never observe the same sequence value.
const nextSeqQuery = `
INSERT INTO counters (name, seq) VALUES (?, 1)
ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
RETURNING seq`

// Source issues order numbers from the shared counter row.
type Source interface {
	NextOrderNumber(ctx context.Context, tx *gorm.DB) (string, error)
}

type counterSource struct {
	db *gorm.DB
}

// NewCounterSource builds a Source backed by the counters table.
func NewCounterSource(db *gorm.DB) (Source, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	return &counterSource{db: db}, nil
}

// NextOrderNumber increments the order counter and formats the new
// sequence as a zero-padded identifier. Padding is a minimum of two
// digits, so values of 100 and above simply widen.
func (s *counterSource) NextOrderNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	conn := s.db
	if tx != nil {
		conn = tx
	}
	var seq int64
	err := conn.WithContext(ctx).Raw(nextSeqQuery, models.CounterOrder).Scan(&seq).Error
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance order counter")
	}
	if seq <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "order counter returned no sequence")
	}
	return fmt.Sprintf("Order_%02d", seq), nil
}
