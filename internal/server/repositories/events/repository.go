package events

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	// Append stores e and sets e.Seq.
	Append(ctx context.Context, e *models.Event) error
	// ListAfter returns up to limit events with Seq > afterSeq in Seq order.
	ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error)
}
